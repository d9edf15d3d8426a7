package domain

import (
	"fmt"
	"strings"
	"time"
)

// SubmittedField is one answer, keyed by the label the field had when the
// form was filled in.
type SubmittedField struct {
	Label string
	Value any
}

// Submission is an immutable snapshot of the answers given to a form.
type Submission struct {
	ID              string
	FormID          string
	UserID          string // empty for anonymous submissions
	SubmittedFields []SubmittedField
	SubmittedAt     time.Time
}

// NewSubmission validates the envelope of a submission. It does not look at
// the form; see Form.CheckAnswers.
func NewSubmission(formID, userID string, answers []SubmittedField, now time.Time) (*Submission, error) {
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return nil, invalid("formId", "form ID is required")
	}
	if len(answers) == 0 {
		return nil, invalid("submittedFields", "submitted fields are required")
	}

	snapshot := make([]SubmittedField, len(answers))
	for i, a := range answers {
		label := strings.TrimSpace(a.Label)
		if label == "" {
			return nil, invalid(fmt.Sprintf("submittedFields[%d].label", i), "label is required")
		}
		snapshot[i] = SubmittedField{Label: label, Value: a.Value}
	}

	return &Submission{
		FormID:          formID,
		UserID:          userID,
		SubmittedFields: snapshot,
		SubmittedAt:     now,
	}, nil
}
