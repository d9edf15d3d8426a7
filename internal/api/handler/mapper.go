package handler

import (
	"github.com/formforge/forms-api/internal/core/domain"
)

// --- Request → Service input ---

func toFieldSpecs(reqs []fieldRequest) []domain.FieldSpec {
	specs := make([]domain.FieldSpec, len(reqs))
	for i, r := range reqs {
		specs[i] = domain.FieldSpec{
			Type:        domain.FieldType(r.Type),
			Label:       r.Label,
			Placeholder: r.Placeholder,
			Required:    r.Required,
			MinLength:   r.MinLength,
			MaxLength:   r.MaxLength,
			Min:         r.Min,
			Max:         r.Max,
			Step:        r.Step,
			Rows:        r.Rows,
			Order:       r.Order,
		}
	}
	return specs
}

func toSubmittedFields(reqs []submittedFieldRequest) []domain.SubmittedField {
	answers := make([]domain.SubmittedField, len(reqs))
	for i, r := range reqs {
		answers[i] = domain.SubmittedField{Label: r.Label, Value: r.Value}
	}
	return answers
}

// --- Domain → HTTP response ---

func toFieldResponse(f domain.Field) fieldResponse {
	s := f.Spec()
	return fieldResponse{
		Type:        string(s.Type),
		Label:       s.Label,
		Placeholder: s.Placeholder,
		Required:    s.Required,
		MinLength:   s.MinLength,
		MaxLength:   s.MaxLength,
		Min:         s.Min,
		Max:         s.Max,
		Step:        s.Step,
		Rows:        s.Rows,
		Order:       f.Order,
	}
}

func toFormResponse(f *domain.Form) formResponse {
	fields := make([]fieldResponse, len(f.Fields))
	for i, field := range f.Fields {
		fields[i] = toFieldResponse(field)
	}
	resp := formResponse{
		ID:              f.ID,
		Title:           f.Title,
		Fields:          fields,
		UserID:          f.UserID,
		SubmissionCount: f.SubmissionCount,
		CreatedAt:       f.CreatedAt.UTC(),
		UpdatedAt:       f.UpdatedAt.UTC(),
	}
	if !f.LastSubmissionAt.IsZero() {
		at := f.LastSubmissionAt.UTC()
		resp.LastSubmissionAt = &at
	}
	return resp
}

func toFormSummaryResponse(s domain.FormSummary) formSummaryResponse {
	return formSummaryResponse{
		ID:              s.ID,
		Title:           s.Title,
		UserID:          s.UserID,
		SubmissionCount: s.SubmissionCount,
	}
}

func toSubmissionResponse(s *domain.Submission) submissionResponse {
	answers := make([]submittedFieldResponse, len(s.SubmittedFields))
	for i, a := range s.SubmittedFields {
		answers[i] = submittedFieldResponse{Label: a.Label, Value: a.Value}
	}
	return submissionResponse{
		ID:              s.ID,
		FormID:          s.FormID,
		SubmittedFields: answers,
		UserID:          s.UserID,
		SubmittedAt:     s.SubmittedAt.UTC(),
	}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC(),
	}
}
