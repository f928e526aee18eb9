package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ecosdelseo/prospector/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the most recent search result to a workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		cp, err := e.Checkpoints.LoadMostRecent(ctx)
		if err != nil {
			return err
		}
		if cp == nil {
			return eris.New("no previous search results to export")
		}

		filename, err := export.WriteWorkbook(cp.Job.Businesses, cp.Job.City, cfg.Export.Dir)
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d businesses from %s to %s/%s\n",
			len(cp.Job.Businesses), cp.Job.City, cfg.Export.Dir, filename)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
