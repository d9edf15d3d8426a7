package ports

import (
	"context"

	"github.com/formforge/forms-api/internal/core/domain"
)

// SubmissionRepository stores immutable submissions.
type SubmissionRepository interface {
	// Create stores s and sets s.ID.
	Create(ctx context.Context, s *domain.Submission) error
	// ListByForm returns the submissions of a form ordered by submission time.
	ListByForm(ctx context.Context, formID string) ([]*domain.Submission, error)
}
