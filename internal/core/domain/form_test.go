package domain

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func surveySpecs() []FieldSpec {
	return []FieldSpec{
		{Type: FieldText, Label: "Name", Required: true, MaxLength: intp(10)},
		{Type: FieldNumber, Label: "Age", Min: floatp(0), Max: floatp(120)},
	}
}

func TestNewForm_Survey(t *testing.T) {
	f, err := NewForm("  Survey ", "user-1", surveySpecs(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Title != "Survey" {
		t.Errorf("title must be trimmed, got %q", f.Title)
	}
	if f.UserID != "user-1" {
		t.Errorf("expected owner user-1, got %q", f.UserID)
	}
	if len(f.Fields) != 2 || f.Fields[0].Label != "Name" || f.Fields[1].Label != "Age" {
		t.Fatalf("unexpected fields: %+v", f.Fields)
	}
	if f.Fields[0].Order != 0 || f.Fields[1].Order != 1 {
		t.Errorf("expected orders 0,1 got %d,%d", f.Fields[0].Order, f.Fields[1].Order)
	}
	if !f.CreatedAt.Equal(testNow) || !f.UpdatedAt.Equal(testNow) {
		t.Error("timestamps must be set to now")
	}
}

func TestNewForm_EmptyTitle(t *testing.T) {
	_, err := NewForm("   ", "user-1", surveySpecs(), testNow)

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}
}

func TestNewForm_RequiresOwner(t *testing.T) {
	_, err := NewForm("Survey", "", surveySpecs(), testNow)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestForm_Redefine(t *testing.T) {
	f, _ := NewForm("Survey", "user-1", surveySpecs(), testNow)
	f.ID = "form-1"
	later := testNow.Add(time.Hour)

	err := f.Redefine("Survey v2", []FieldSpec{{Type: FieldTextarea, Label: ""}}, later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.ID != "form-1" || f.UserID != "user-1" || !f.CreatedAt.Equal(testNow) {
		t.Error("id, owner and createdAt must not change")
	}
	if !f.UpdatedAt.Equal(later) {
		t.Errorf("updatedAt not bumped: %v", f.UpdatedAt)
	}
	if f.Title != "Survey v2" || len(f.Fields) != 1 || f.Fields[0].Label != UnnamedFieldLabel {
		t.Errorf("unexpected definition: %q %+v", f.Title, f.Fields)
	}
}

func TestForm_RedefineInvalidLeavesFormUnchanged(t *testing.T) {
	f, _ := NewForm("Survey", "user-1", surveySpecs(), testNow)

	if err := f.Redefine("Survey", nil, testNow.Add(time.Hour)); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(f.Fields) != 2 || !f.UpdatedAt.Equal(testNow) {
		t.Error("form must be unchanged after a failed redefine")
	}
}

func TestForm_OwnedBy(t *testing.T) {
	f := &Form{UserID: "user-1"}
	if !f.OwnedBy("user-1") {
		t.Error("owner must own the form")
	}
	if f.OwnedBy("user-2") || f.OwnedBy("") {
		t.Error("only the owner may own the form")
	}
}

func TestNewSubmission(t *testing.T) {
	s, err := NewSubmission("form-1", "", []SubmittedField{{Label: " Name ", Value: "Ann"}}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.SubmittedFields[0].Label != "Name" {
		t.Errorf("label must be trimmed, got %q", s.SubmittedFields[0].Label)
	}
	if s.UserID != "" || !s.SubmittedAt.Equal(testNow) {
		t.Errorf("unexpected submission: %+v", s)
	}
}

func TestNewSubmission_Invalid(t *testing.T) {
	cases := []struct {
		name      string
		formID    string
		answers   []SubmittedField
		wantField string
	}{
		{"missing form id", "", []SubmittedField{{Label: "a", Value: 1}}, "formId"},
		{"no answers", "form-1", nil, "submittedFields"},
		{"blank label", "form-1", []SubmittedField{{Label: "a"}, {Label: "  "}}, "submittedFields[1].label"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSubmission(tc.formID, "", tc.answers, testNow)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.wantField {
				t.Fatalf("expected validation error on %q, got %v", tc.wantField, err)
			}
		})
	}
}
