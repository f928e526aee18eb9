package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ecosdelseo/prospector/internal/model"
)

var searchWait time.Duration

var searchCmd = &cobra.Command{
	Use:   "search <city>",
	Short: "Run one search job and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		jobID, err := e.Runner.Start(ctx, args[0])
		if err != nil {
			return err
		}

		deadline := time.Now().Add(searchWait)
		for {
			job, ok := e.Jobs.Get(jobID)
			if ok && job.Status.Terminal() {
				printSummary(job)
				if job.Status == model.JobStatusFailed {
					return eris.Errorf("search failed: %s", job.Error)
				}
				return nil
			}
			if time.Now().After(deadline) {
				return eris.Errorf("search still running after %s, job id %s", searchWait, jobID)
			}
			time.Sleep(2 * time.Second)
		}
	},
}

func printSummary(job *model.Job) {
	fmt.Printf("Job %s (%s): %s\n", job.ID, job.City, job.Status)
	fmt.Printf("Businesses found: %d\n", len(job.Businesses))

	counts := make(map[model.Priority]int)
	for _, b := range job.Businesses {
		counts[b.Priority]++
	}
	for _, p := range []model.Priority{
		model.PriorityPremium, model.PriorityAlto, model.PriorityMedio, model.PriorityBajo,
	} {
		if counts[p] > 0 {
			fmt.Printf("  %-8s %d\n", p, counts[p])
		}
	}
}

func init() {
	searchCmd.Flags().DurationVar(&searchWait, "wait", 30*time.Minute, "maximum time to wait for completion")
	rootCmd.AddCommand(searchCmd)
}
