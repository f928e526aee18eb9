package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecosdelseo/prospector/internal/config"
	"github.com/ecosdelseo/prospector/internal/model"
	"github.com/ecosdelseo/prospector/internal/store"
	"github.com/ecosdelseo/prospector/pkg/extractor"
)

// Runner drives search jobs through their lifecycle:
// starting -> searching -> completed | failed. Each accepted search spawns
// one background goroutine that owns all writes to its job.
type Runner struct {
	cfg         config.SearchConfig
	jobs        *store.JobStore
	checkpoints store.Checkpointer
	extractor   extractor.Client
	filter      *Filter
}

// NewRunner creates a Runner. The filter is built from the configured chain
// list file when present, otherwise from the built-in defaults.
func NewRunner(cfg config.SearchConfig, jobs *store.JobStore, checkpoints store.Checkpointer, ext extractor.Client) *Runner {
	lists := DefaultChainLists()
	if cfg.ChainListPath != "" {
		loaded, err := LoadChainLists(cfg.ChainListPath)
		if err != nil {
			zap.L().Warn("runner: chain list file not loaded, using defaults", zap.Error(err))
		} else {
			lists = loaded
		}
	}
	return &Runner{
		cfg:         cfg,
		jobs:        jobs,
		checkpoints: checkpoints,
		extractor:   ext,
		filter:      NewFilter(lists, cfg.ChainReviewThreshold),
	}
}

// Start accepts a search request, registers the job, writes the initial
// checkpoint, and returns the job id immediately. The search itself runs in
// the background; the job store is the only channel of observable state.
func (r *Runner) Start(ctx context.Context, city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", eris.Wrap(model.ErrValidation, "runner: city is required")
	}

	job := &model.Job{
		ID:            uuid.New().String(),
		City:          city,
		Status:        model.JobStatusStarting,
		StatusMessage: fmt.Sprintf("Search accepted for %s", city),
		StartedAt:     time.Now().UTC(),
	}
	r.jobs.Create(job)

	if err := r.checkpoints.Save(ctx, job); err != nil {
		zap.L().Warn("runner: initial checkpoint failed",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}

	go r.run(context.WithoutCancel(ctx), job.ID, city)

	return job.ID, nil
}

// run executes one job to completion or failure. It is the sole writer for
// its job entry.
func (r *Runner) run(ctx context.Context, jobID, city string) {
	log := zap.L().With(zap.String("job_id", jobID), zap.String("city", city))
	log.Info("runner: search starting")

	r.update(jobID, func(j *model.Job) {
		j.Status = model.JobStatusSearching
		j.StatusMessage = "Searching categories"
	})

	dedup := NewDeduplicator()
	categories := r.cfg.Categories
	sinceSave := 0

	for i, category := range categories {
		r.update(jobID, func(j *model.Job) {
			j.StatusMessage = fmt.Sprintf("Searching %s in %s", category, city)
		})

		query := fmt.Sprintf("%s en %s %s", category, city, r.cfg.CountryHint)
		candidates, err := r.extractor.SearchListings(ctx, query)
		if err != nil {
			if eris.Is(err, extractor.ErrNoResults) {
				log.Info("runner: category yielded no results", zap.String("category", category))
				r.advance(jobID, i+1, len(categories))
				continue
			}
			// The collaborator itself is unusable; abort with partial
			// results preserved.
			log.Error("runner: extraction collaborator failed", zap.Error(err))
			r.fail(ctx, jobID, eris.Wrapf(err, "search %s", category))
			return
		}

		enriched := r.enrichCandidates(ctx, log, candidates, city)

		admitted := 0
		for _, b := range enriched {
			if !r.filter.IsLocal(b) {
				continue
			}
			if !MeetsMinimum(b) {
				continue
			}
			if !dedup.Admit(b.Name, b.Address) {
				continue
			}

			b.Priority, b.SuggestedServices = Classify(b)

			r.update(jobID, func(j *model.Job) {
				j.Businesses = append(j.Businesses, b)
				j.CurrentCount = len(j.Businesses)
			})
			admitted++
			sinceSave++

			if sinceSave >= r.checkpointEvery() {
				r.checkpoint(ctx, jobID)
				sinceSave = 0
			}
		}

		log.Info("runner: category done",
			zap.String("category", category),
			zap.Int("candidates", len(candidates)),
			zap.Int("admitted", admitted),
		)
		r.advance(jobID, i+1, len(categories))
	}

	now := time.Now().UTC()
	r.update(jobID, func(j *model.Job) {
		j.Status = model.JobStatusCompleted
		j.Progress = 100
		j.StatusMessage = fmt.Sprintf("Search completed: %d businesses found", j.CurrentCount)
		j.EndedAt = &now
	})
	r.checkpoint(ctx, jobID)
	log.Info("runner: search completed")
}

// enrichCandidates fetches details with bounded concurrency and merges them.
// A failed detail fetch keeps the bare candidate.
func (r *Runner) enrichCandidates(ctx context.Context, log *zap.Logger, candidates []model.BusinessCandidate, city string) []model.EnrichedBusiness {
	enriched := make([]model.EnrichedBusiness, len(candidates))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.detailConcurrency())
	for i, c := range candidates {
		g.Go(func() error {
			var detail *model.BusinessDetail
			if c.SourceURL != "" {
				d, err := r.extractor.FetchDetail(gCtx, c.SourceURL)
				if err != nil {
					// Recovered locally: partial data beats no data.
					log.Debug("runner: detail fetch failed",
						zap.String("name", c.Name),
						zap.Error(err),
					)
				} else {
					detail = d
				}
			}
			enriched[i] = Merge(c, detail, city, time.Now().UTC())
			return nil
		})
	}
	// Workers only write their own index and never return errors.
	_ = g.Wait()

	return enriched
}

// advance moves progress proportionally to categories processed. The loop
// caps at 99; only completion sets 100.
func (r *Runner) advance(jobID string, done, total int) {
	progress := done * 100 / total
	if progress > 99 {
		progress = 99
	}
	r.update(jobID, func(j *model.Job) {
		j.Progress = progress
	})
}

func (r *Runner) fail(ctx context.Context, jobID string, cause error) {
	now := time.Now().UTC()
	r.update(jobID, func(j *model.Job) {
		j.Status = model.JobStatusFailed
		j.StatusMessage = "Search failed"
		j.Error = eris.ToString(cause, false)
		j.EndedAt = &now
	})
	r.checkpoint(ctx, jobID)
}

func (r *Runner) update(jobID string, fn func(*model.Job)) {
	if err := r.jobs.Update(jobID, fn); err != nil {
		zap.L().Warn("runner: job update failed", zap.String("job_id", jobID), zap.Error(err))
	}
}

func (r *Runner) checkpoint(ctx context.Context, jobID string) {
	job, ok := r.jobs.Get(jobID)
	if !ok {
		return
	}
	if err := r.checkpoints.Save(ctx, job); err != nil {
		zap.L().Warn("runner: checkpoint save failed", zap.String("job_id", jobID), zap.Error(err))
	}
}

func (r *Runner) checkpointEvery() int {
	if r.cfg.CheckpointEvery <= 0 {
		return 20
	}
	return r.cfg.CheckpointEvery
}

func (r *Runner) detailConcurrency() int {
	if r.cfg.DetailConcurrency <= 0 {
		return 4
	}
	return r.cfg.DetailConcurrency
}
