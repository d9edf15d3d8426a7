package ports

import (
	"context"
	"iter"
	"time"

	"github.com/formforge/forms-api/internal/core/domain"
)

// FormRepository defines persistence operations for forms. Missing,
// soft-deleted and malformed ids all resolve to domain.ErrFormNotFound.
type FormRepository interface {
	// Create stores f and sets f.ID.
	Create(ctx context.Context, f *domain.Form) error
	FindByID(ctx context.Context, id string) (*domain.Form, error)
	// List yields live forms in insertion order. Every range over the
	// returned sequence runs a fresh query.
	List(ctx context.Context) iter.Seq2[domain.FormSummary, error]
	// Update replaces title, fields and updatedAt in one write guarded by
	// the form's id and owner.
	Update(ctx context.Context, f *domain.Form) error
	Delete(ctx context.Context, id, ownerID string) error
	SoftDelete(ctx context.Context, id, ownerID string, at time.Time) error
}
