package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/formforge/forms-api/internal/core/domain"
	"github.com/formforge/forms-api/internal/core/ports"
)

type SubmissionService struct {
	forms       ports.FormRepository
	submissions ports.SubmissionRepository
	publisher   ports.SubmissionPublisher
	strict      bool
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService returns a SubmissionService. publisher may be nil, in
// which case no statistics events are emitted. With strict set, answers are
// checked against the form's field constraints.
func NewSubmissionService(
	forms ports.FormRepository,
	submissions ports.SubmissionRepository,
	publisher ports.SubmissionPublisher,
	strict bool,
	logger zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		forms:       forms,
		submissions: submissions,
		publisher:   publisher,
		strict:      strict,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateSubmission stores a filled-in form. The form must exist and be live.
func (s *SubmissionService) CreateSubmission(ctx context.Context, in ports.CreateSubmissionInput) (*domain.Submission, error) {
	sub, err := domain.NewSubmission(in.FormID, in.UserID, in.SubmittedFields, s.now())
	if err != nil {
		return nil, err
	}

	form, err := s.forms.FindByID(ctx, sub.FormID)
	if err != nil {
		if isNotFound(err) {
			s.logger.Debug().Str("form_id", sub.FormID).Msg("submission for unknown form")
		}
		return nil, fmt.Errorf("create submission: %w", err)
	}
	if s.strict {
		if err := form.CheckAnswers(sub.SubmittedFields); err != nil {
			return nil, err
		}
	}

	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(ports.SubmissionRecorded{
			FormID:       sub.FormID,
			SubmissionID: sub.ID,
			SubmittedAt:  sub.SubmittedAt,
		})
	}

	s.logger.Info().
		Str("submission_id", sub.ID).
		Str("form_id", sub.FormID).
		Bool("anonymous", sub.UserID == "").
		Msg("submission stored")
	return sub, nil
}

// ListSubmissions returns every submission of a form. No ownership check is made.
func (s *SubmissionService) ListSubmissions(ctx context.Context, formID string) ([]*domain.Submission, error) {
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return nil, &domain.ValidationError{Field: "formId", Message: "form ID is required"}
	}

	subs, err := s.submissions.ListByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

var _ ports.SubmissionService = (*SubmissionService)(nil)
