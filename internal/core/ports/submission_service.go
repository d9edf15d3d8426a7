package ports

import (
	"context"

	"github.com/formforge/forms-api/internal/core/domain"
)

// CreateSubmissionInput carries one filled-in form. UserID is empty for
// anonymous submissions.
type CreateSubmissionInput struct {
	FormID          string
	SubmittedFields []domain.SubmittedField
	UserID          string
}

type SubmissionService interface {
	CreateSubmission(ctx context.Context, in CreateSubmissionInput) (*domain.Submission, error)
	ListSubmissions(ctx context.Context, formID string) ([]*domain.Submission, error)
}
