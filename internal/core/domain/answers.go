package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// CheckAnswers validates answers against the form's field constraints.
// Answers pair with fields by label in field order, so repeated labels pair
// up one by one. An answer that pairs with no field is rejected.
func (f *Form) CheckAnswers(answers []SubmittedField) error {
	used := make([]bool, len(answers))

	for _, field := range f.Fields {
		var value any
		for j, a := range answers {
			if !used[j] && strings.TrimSpace(a.Label) == field.Label {
				used[j] = true
				value = a.Value
				break
			}
		}

		if isBlank(value) {
			if field.Required {
				return invalid(field.Label, "is required")
			}
			continue
		}
		if field.Constraints == nil {
			continue
		}
		if err := field.Constraints.check(field.Label, value); err != nil {
			return err
		}
	}

	for j, a := range answers {
		if !used[j] {
			return invalid(fmt.Sprintf("submittedFields[%d].label", j), "%q does not match any field of the form", a.Label)
		}
	}
	return nil
}

func (c TextConstraints) check(field string, v any) error {
	return checkText(field, v, c.MinLength, c.MaxLength)
}

func (c TextareaConstraints) check(field string, v any) error {
	return checkText(field, v, c.MinLength, c.MaxLength)
}

func (c NumberConstraints) check(field string, v any) error {
	n, ok := toNumber(v)
	if !ok {
		return invalid(field, "must be a number")
	}
	if c.Min != nil && n < *c.Min {
		return invalid(field, "must be at least %v", *c.Min)
	}
	if c.Max != nil && n > *c.Max {
		return invalid(field, "must be at most %v", *c.Max)
	}
	if c.Step != nil && *c.Step > 0 {
		base := 0.0
		if c.Min != nil {
			base = *c.Min
		}
		q := (n - base) / *c.Step
		if math.Abs(q-math.Round(q)) > 1e-9*math.Max(1, math.Abs(q)) {
			return invalid(field, "must be a multiple of %v", *c.Step)
		}
	}
	return nil
}

func checkText(field string, v any, minLength, maxLength *int) error {
	s, ok := v.(string)
	if !ok {
		return invalid(field, "must be text")
	}
	n := utf8.RuneCountInString(s)
	if minLength != nil && n < *minLength {
		return invalid(field, "must be at least %d characters", *minLength)
	}
	if maxLength != nil && n > *maxLength {
		return invalid(field, "must be at most %d characters", *maxLength)
	}
	return nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func toNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int32:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
