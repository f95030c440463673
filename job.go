package qphase

import (
	"time"

	"github.com/google/uuid"
)

// Job is one request to execute a circuit for a number of shots.
type Job struct {
	ID        string
	Circuit   *Circuit
	Shots     int
	StartTime time.Time
}

// JobOption is a function type for configuring jobs
type JobOption func(*Job)

// NewJob wraps a circuit and shot count, assigning a random id.
func NewJob(circuit *Circuit, shots int, opts ...JobOption) *Job {
	job := &Job{
		ID:      uuid.NewString(),
		Circuit: circuit,
		Shots:   shots,
	}

	for _, opt := range opts {
		opt(job)
	}

	return job
}

// WithJobID overrides the generated id.
func WithJobID(id string) JobOption {
	return func(j *Job) {
		j.ID = id
	}
}

// Result is what a backend hands back for a finished Job.
type Result struct {
	JobID    string
	Backend  string
	Shots    int
	Counts   Counts
	Duration time.Duration
}
