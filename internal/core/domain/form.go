package domain

import (
	"strings"
	"time"
)

// Form is the aggregate root: a titled, ordered list of fields owned by one user.
type Form struct {
	ID        string
	Title     string
	UserID    string
	Fields    []Field
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Maintained asynchronously from recorded submissions.
	SubmissionCount  int64
	LastSubmissionAt time.Time
}

// FormSummary is the catalog view of a form.
type FormSummary struct {
	ID              string
	Title           string
	UserID          string
	SubmissionCount int64
}

// NewForm builds a validated form owned by ownerID. The ID is assigned by the store.
func NewForm(title, ownerID string, specs []FieldSpec, now time.Time) (*Form, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	title, fields, err := buildDefinition(title, specs)
	if err != nil {
		return nil, err
	}
	return &Form{
		Title:     title,
		UserID:    ownerID,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Redefine replaces title and fields wholesale. On error the form is unchanged.
func (f *Form) Redefine(title string, specs []FieldSpec, now time.Time) error {
	title, fields, err := buildDefinition(title, specs)
	if err != nil {
		return err
	}
	f.Title = title
	f.Fields = fields
	f.UpdatedAt = now
	return nil
}

// OwnedBy reports whether userID may mutate the form.
func (f *Form) OwnedBy(userID string) bool {
	return userID != "" && f.UserID == userID
}

func (f *Form) Summary() FormSummary {
	return FormSummary{
		ID:              f.ID,
		Title:           f.Title,
		UserID:          f.UserID,
		SubmissionCount: f.SubmissionCount,
	}
}

func buildDefinition(title string, specs []FieldSpec) (string, []Field, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil, invalid("title", "form title is required")
	}
	fields, err := BuildFields(specs)
	if err != nil {
		return "", nil, err
	}
	return title, fields, nil
}
