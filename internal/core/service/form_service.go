package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/rs/zerolog"

	"github.com/formforge/forms-api/internal/core/domain"
	"github.com/formforge/forms-api/internal/core/ports"
)

type FormService struct {
	repo   ports.FormRepository
	policy ports.DeletePolicy
	logger zerolog.Logger
	now    func() time.Time
}

// NewFormService returns a FormService. An unknown policy falls back to hard deletes.
func NewFormService(repo ports.FormRepository, policy ports.DeletePolicy, logger zerolog.Logger) *FormService {
	if policy != ports.DeleteSoft {
		policy = ports.DeleteHard
	}
	return &FormService{
		repo:   repo,
		policy: policy,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateForm validates and stores a new form owned by in.OwnerID. Nothing is
// persisted when validation fails.
func (s *FormService) CreateForm(ctx context.Context, in ports.CreateFormInput) (*domain.Form, error) {
	form, err := domain.NewForm(in.Title, in.OwnerID, in.Fields, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("create form: %w", err)
	}

	s.logger.Info().
		Str("form_id", form.ID).
		Str("user_id", form.UserID).
		Int("fields", len(form.Fields)).
		Msg("form created")
	return form, nil
}

// GetForm returns a form by id. Reads are public.
func (s *FormService) GetForm(ctx context.Context, id string) (*domain.Form, error) {
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}
	return form, nil
}

// ListForms returns a lazy sequence of form summaries. Ranging over it again
// re-reads the store.
func (s *FormService) ListForms(ctx context.Context) iter.Seq2[domain.FormSummary, error] {
	return func(yield func(domain.FormSummary, error) bool) {
		for summary, err := range s.repo.List(ctx) {
			if err != nil {
				yield(domain.FormSummary{}, fmt.Errorf("list forms: %w", err))
				return
			}
			if !yield(summary, nil) {
				return
			}
		}
	}
}

// UpdateForm replaces title and fields of a form owned by in.CallerID.
func (s *FormService) UpdateForm(ctx context.Context, in ports.UpdateFormInput) (*domain.Form, error) {
	form, err := s.owned(ctx, in.ID, in.CallerID)
	if err != nil {
		return nil, fmt.Errorf("update form: %w", err)
	}

	if err := form.Redefine(in.Title, in.Fields, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("update form: %w", err)
	}

	s.logger.Info().Str("form_id", form.ID).Msg("form updated")
	return form, nil
}

// DeleteForm removes a form owned by callerID according to the delete policy.
// Submissions of the form are kept.
func (s *FormService) DeleteForm(ctx context.Context, id, callerID string) error {
	form, err := s.owned(ctx, id, callerID)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}

	if s.policy == ports.DeleteSoft {
		err = s.repo.SoftDelete(ctx, form.ID, form.UserID, s.now())
	} else {
		err = s.repo.Delete(ctx, form.ID, form.UserID)
	}
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}

	s.logger.Info().Str("form_id", form.ID).Str("policy", string(s.policy)).Msg("form deleted")
	return nil
}

func (s *FormService) owned(ctx context.Context, id, callerID string) (*domain.Form, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !form.OwnedBy(callerID) {
		s.logger.Warn().Str("form_id", id).Str("caller_id", callerID).Msg("ownership check failed")
		return nil, domain.ErrForbidden
	}
	return form, nil
}

var _ ports.FormService = (*FormService)(nil)

// isNotFound is shared by the services that resolve forms.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrFormNotFound)
}
