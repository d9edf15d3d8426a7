package ports

import (
	"context"
	"iter"

	"github.com/formforge/forms-api/internal/core/domain"
)

// DeletePolicy selects what DeleteForm does to the stored document.
type DeletePolicy string

const (
	DeleteHard DeletePolicy = "hard"
	DeleteSoft DeletePolicy = "soft"
)

// CreateFormInput is the DTO passed from the transport layer to FormService.
type CreateFormInput struct {
	Title   string
	Fields  []domain.FieldSpec
	OwnerID string
}

// UpdateFormInput replaces a form's title and fields.
type UpdateFormInput struct {
	ID       string
	CallerID string
	Title    string
	Fields   []domain.FieldSpec
}

// FormService defines use-case operations for form definitions.
type FormService interface {
	CreateForm(ctx context.Context, in CreateFormInput) (*domain.Form, error)
	GetForm(ctx context.Context, id string) (*domain.Form, error)
	ListForms(ctx context.Context) iter.Seq2[domain.FormSummary, error]
	UpdateForm(ctx context.Context, in UpdateFormInput) (*domain.Form, error)
	DeleteForm(ctx context.Context, id, callerID string) error
}
