package ports

import (
	"context"
	"time"
)

// SubmissionRecorded is published after a submission has been stored.
type SubmissionRecorded struct {
	FormID       string
	SubmissionID string
	SubmittedAt  time.Time
}

// SubmissionPublisher hands events to the statistics workers. Publish must
// not block the caller.
type SubmissionPublisher interface {
	Publish(event SubmissionRecorded)
}

// FormStatsRepository maintains the denormalized counters on a form.
type FormStatsRepository interface {
	// IncrementSubmissions adds one to the form's submission count and raises
	// its last submission time to at.
	IncrementSubmissions(ctx context.Context, formID string, at time.Time) error
}

// FormStatsService consumes SubmissionRecorded events.
type FormStatsService interface {
	Record(ctx context.Context, event SubmissionRecorded) error
}
