package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/hqzhou/textreflow/internal/reflow"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusExtracting JobStatus = "extracting"
	StatusReflowing  JobStatus = "reflowing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCanceled   JobStatus = "canceled"
)

// Job tracks the state of a single document conversion.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	Status   JobStatus `json:"status"`

	Percent int    `json:"percent"`
	Pages   int    `json:"pages"`
	Error   string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	opts     reflow.Options
	result   string
	cancel   context.CancelFunc
}

// NewJob creates a queued job holding the uploaded bytes and the
// reflow options for this conversion.
func NewJob(filename string, data []byte, opts reflow.Options) *Job {
	now := time.Now()
	return &Job{
		ID:        NewJobID(),
		Filename:  filename,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
		opts:      opts,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// SetProgress records extraction progress. Reports arrive from a
// single worker goroutine but regressions are dropped anyway.
func (j *Job) SetProgress(percent int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if percent > j.Percent {
		j.Percent = percent
	}
	j.UpdatedAt = time.Now()
}

// SetPages records the page count reported by the extractor.
func (j *Job) SetPages(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Pages = n
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with a message.
func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = msg
	j.UpdatedAt = time.Now()
}

// SetResult stores the reflowed text, releases the upload bytes and
// completes the job.
func (j *Job) SetResult(text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = text
	j.fileData = nil
	j.Status = StatusCompleted
	j.Percent = 100
	j.UpdatedAt = time.Now()
}

// Result returns the reflowed text and whether the job is complete.
func (j *Job) Result() (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.Status == StatusCompleted
}

// FileData returns the raw uploaded bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// Options returns the reflow options for this conversion.
func (j *Job) Options() reflow.Options {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.opts
}

func (j *Job) setCancel(cancel context.CancelFunc) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cancel = cancel
}

// Cancel requests cooperative cancellation. Extraction notices at the
// next page boundary; a queued job is canceled before it ever starts.
func (j *Job) Cancel() {
	j.mu.Lock()
	cancel := j.cancel
	switch j.Status {
	case StatusQueued, StatusExtracting:
		j.Status = StatusCanceled
		j.UpdatedAt = time.Now()
	}
	j.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Canceled reports whether cancellation was requested.
func (j *Job) Canceled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.Status == StatusCanceled
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Filename string    `json:"filename"`
	Status   JobStatus `json:"status"`
	Percent  int       `json:"percent"`
	Pages    int       `json:"pages"`
	Error    string    `json:"error,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:       j.ID,
		Filename: j.Filename,
		Status:   j.Status,
		Percent:  j.Percent,
		Pages:    j.Pages,
		Error:    j.Error,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.ttl)
	for id, job := range s.jobs {
		if job.updatedBefore(cutoff) {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedBefore(cutoff time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt.Before(cutoff)
}
