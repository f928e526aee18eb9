package store

import (
	"sync"

	"github.com/rotisserie/eris"

	"github.com/ecosdelseo/prospector/internal/model"
)

// JobStore is the process-owned table of job state. Each job is written only
// by its own runner; status queries are concurrent readers that always see a
// consistent snapshot. Jobs are never deleted.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

// NewJobStore creates an empty JobStore.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*model.Job)}
}

// Create registers a new job. The store keeps its own copy.
func (s *JobStore) Create(job *model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job.Clone()
}

// Update applies fn to the job under the write lock, so readers never
// observe a partially applied mutation. Terminal jobs reject further
// updates; progress never decreases.
func (s *JobStore) Update(id string, fn func(*model.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return eris.Wrapf(model.ErrNotFound, "store: job %s", id)
	}
	if job.Status.Terminal() {
		return eris.Errorf("store: job %s is terminal (%s)", id, job.Status)
	}

	before := job.Progress
	fn(job)
	if job.Progress < before {
		job.Progress = before
	}
	return nil
}

// Get returns a deep copy of the job, or false if unknown.
func (s *JobStore) Get(id string) (*model.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	return job.Clone(), true
}

// List returns copies of all jobs in unspecified order.
func (s *JobStore) List() []*model.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job.Clone())
	}
	return out
}
