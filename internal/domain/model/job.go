package model

// JobKind names an asynchronous job.
type JobKind string

// Job kinds processed by the worker pool.
const (
	JobRescoreFreelancer JobKind = "rescore_freelancer"
	JobNotify            JobKind = "notify"
)

// Job is the payload flowing through the job queue.
type Job struct {
	ID           string  // unique id for idempotency
	Kind         JobKind // what to do
	FreelancerID string
	ReportID     string
	AssignmentID string
	Topic        string // notification topic for JobNotify
}
