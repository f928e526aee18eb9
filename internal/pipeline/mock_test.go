package pipeline

import (
	"context"
	"sync"

	"github.com/ecosdelseo/prospector/internal/model"
	"github.com/ecosdelseo/prospector/pkg/extractor"
)

// fakeExtractor serves canned listings and details keyed by query and source
// URL. Unconfigured queries behave like an empty result page.
type fakeExtractor struct {
	mu        sync.Mutex
	listings  map[string][]model.BusinessCandidate
	listErr   map[string]error
	details   map[string]*model.BusinessDetail
	detailErr map[string]error
	queries   []string
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		listings:  make(map[string][]model.BusinessCandidate),
		listErr:   make(map[string]error),
		details:   make(map[string]*model.BusinessDetail),
		detailErr: make(map[string]error),
	}
}

func (f *fakeExtractor) SearchListings(_ context.Context, query string) ([]model.BusinessCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)

	if err, ok := f.listErr[query]; ok {
		return nil, err
	}
	candidates, ok := f.listings[query]
	if !ok || len(candidates) == 0 {
		return nil, extractor.ErrNoResults
	}
	return candidates, nil
}

func (f *fakeExtractor) FetchDetail(_ context.Context, sourceURL string) (*model.BusinessDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.detailErr[sourceURL]; ok {
		return nil, err
	}
	if d, ok := f.details[sourceURL]; ok {
		return d, nil
	}
	return &model.BusinessDetail{}, nil
}

func (f *fakeExtractor) seenQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.queries))
	copy(out, f.queries)
	return out
}

// fakeCheckpointer records every saved snapshot in order.
type fakeCheckpointer struct {
	mu    sync.Mutex
	saves []*model.Job
}

func (f *fakeCheckpointer) Save(_ context.Context, job *model.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, job.Clone())
	return nil
}

func (f *fakeCheckpointer) Load(_ context.Context, jobID string) (*model.Checkpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.saves) - 1; i >= 0; i-- {
		if f.saves[i].ID == jobID {
			return &model.Checkpoint{Job: *f.saves[i].Clone()}, nil
		}
	}
	return nil, nil
}

func (f *fakeCheckpointer) LoadMostRecent(_ context.Context) (*model.Checkpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil, nil
	}
	return &model.Checkpoint{Job: *f.saves[len(f.saves)-1].Clone()}, nil
}

func (f *fakeCheckpointer) Migrate(context.Context) error { return nil }
func (f *fakeCheckpointer) Close() error                  { return nil }

func (f *fakeCheckpointer) savedSnapshots() []*model.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Job, len(f.saves))
	copy(out, f.saves)
	return out
}
