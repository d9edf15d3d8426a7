package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/formforge/forms-api/internal/core/ports"
)

type formStatsService struct {
	repo ports.FormStatsRepository
	log  zerolog.Logger
}

// NewFormStatsService returns a FormStatsService implementation.
func NewFormStatsService(repo ports.FormStatsRepository, log zerolog.Logger) ports.FormStatsService {
	return &formStatsService{repo: repo, log: log}
}

// Record folds one stored submission into the form's counters. A form deleted
// in the meantime is not an error.
func (s *formStatsService) Record(ctx context.Context, e ports.SubmissionRecorded) error {
	if err := s.repo.IncrementSubmissions(ctx, e.FormID, e.SubmittedAt); err != nil {
		if isNotFound(err) {
			s.log.Debug().Str("form_id", e.FormID).Msg("stats skipped, form is gone")
			return nil
		}
		return fmt.Errorf("record submission: %w", err)
	}

	s.log.Debug().
		Str("form_id", e.FormID).
		Str("submission_id", e.SubmissionID).
		Msg("form stats updated")
	return nil
}
