package server

import (
	"sync"

	"github.com/google/uuid"
)

const (
	jobPending = "pending"
	jobRunning = "running"
	jobDone    = "done"
	jobError   = "error"
)

// Job tracks one background generation. Generation takes tens of seconds, so
// POST /generate returns a job id immediately and clients poll /status.
type Job struct {
	Status    string `json:"status"`
	Prompt    string `json:"prompt"`
	WorldID   string `json:"world_id,omitempty"`
	IsRefusal bool   `json:"is_refusal,omitempty"`
	Error     string `json:"error,omitempty"`
}

// jobStore is the in-memory job table. Handlers run concurrently, so access
// goes through the mutex.
type jobStore struct {
	mu   sync.Mutex
	jobs map[string]Job
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[string]Job)}
}

func (s *jobStore) create(prompt string) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.jobs[id] = Job{Status: jobPending, Prompt: prompt}
	s.mu.Unlock()
	return id
}

func (s *jobStore) get(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	return job, ok
}

func (s *jobStore) update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.jobs[id]
	fn(&job)
	s.jobs[id] = job
}
