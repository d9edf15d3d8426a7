package domain

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// FieldType is the tag of the Field union.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldTextarea FieldType = "textarea"
)

// UnnamedFieldLabel replaces labels that are blank when a form is saved.
const UnnamedFieldLabel = "Unnamed field"

// Constraints is the type-specific half of a Field. It is implemented by
// TextConstraints, NumberConstraints and TextareaConstraints only.
type Constraints interface {
	Type() FieldType
	validate(path string) error
	check(field string, value any) error
	flatten(spec *FieldSpec)
}

// TextConstraints applies to single-line text inputs.
type TextConstraints struct {
	MinLength *int
	MaxLength *int
}

// NumberConstraints applies to numeric inputs.
type NumberConstraints struct {
	Min  *float64
	Max  *float64
	Step *float64
}

// TextareaConstraints applies to multi-line text inputs.
type TextareaConstraints struct {
	MinLength *int
	MaxLength *int
	Rows      *int
}

func (TextConstraints) Type() FieldType     { return FieldText }
func (NumberConstraints) Type() FieldType   { return FieldNumber }
func (TextareaConstraints) Type() FieldType { return FieldTextarea }

func (c TextConstraints) validate(path string) error {
	return validateLengths(path, c.MinLength, c.MaxLength)
}

func (c NumberConstraints) validate(path string) error {
	for _, attr := range []struct {
		name string
		v    *float64
	}{{"min", c.Min}, {"max", c.Max}, {"step", c.Step}} {
		if attr.v != nil && (math.IsNaN(*attr.v) || math.IsInf(*attr.v, 0)) {
			return invalid(path+"."+attr.name, "must be a finite number")
		}
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return invalid(path+".min", "must not be greater than max")
	}
	if c.Step != nil && *c.Step < 0 {
		return invalid(path+".step", "must be non-negative")
	}
	return nil
}

func (c TextareaConstraints) validate(path string) error {
	if err := validateLengths(path, c.MinLength, c.MaxLength); err != nil {
		return err
	}
	if c.Rows != nil && *c.Rows < 1 {
		return invalid(path+".rows", "must be at least 1")
	}
	return nil
}

func validateLengths(path string, minLength, maxLength *int) error {
	if minLength != nil && *minLength < 0 {
		return invalid(path+".minLength", "must be non-negative")
	}
	if maxLength != nil && *maxLength < 0 {
		return invalid(path+".maxLength", "must be non-negative")
	}
	if minLength != nil && maxLength != nil && *minLength > *maxLength {
		return invalid(path+".minLength", "must not be greater than maxLength")
	}
	return nil
}

func (c TextConstraints) flatten(s *FieldSpec) {
	s.MinLength, s.MaxLength = clone(c.MinLength), clone(c.MaxLength)
}

func (c NumberConstraints) flatten(s *FieldSpec) {
	s.Min, s.Max, s.Step = clone(c.Min), clone(c.Max), clone(c.Step)
}

func (c TextareaConstraints) flatten(s *FieldSpec) {
	s.MinLength, s.MaxLength, s.Rows = clone(c.MinLength), clone(c.MaxLength), clone(c.Rows)
}

// Field is one input definition of a Form.
type Field struct {
	Label       string
	Placeholder string
	Required    bool
	Order       int
	Constraints Constraints
}

// Type returns the tag of the field's constraint variant.
func (f Field) Type() FieldType {
	if f.Constraints == nil {
		return ""
	}
	return f.Constraints.Type()
}

// FieldSpec is the flat shape a field has on the wire and in storage: one
// optional slot for every attribute of every variant. Build turns it into a
// Field, keeping only the attributes that belong to Type.
type FieldSpec struct {
	Type        FieldType
	Label       string
	Placeholder string
	Required    bool
	MinLength   *int
	MaxLength   *int
	Min         *float64
	Max         *float64
	Step        *float64
	Rows        *int
	Order       *int
}

// Spec flattens the field back into its wire/storage shape.
func (f Field) Spec() FieldSpec {
	order := f.Order
	s := FieldSpec{
		Type:        f.Type(),
		Label:       f.Label,
		Placeholder: f.Placeholder,
		Required:    f.Required,
		Order:       &order,
	}
	if f.Constraints != nil {
		f.Constraints.flatten(&s)
	}
	return s
}

// Build validates s and converts it into a Field. The label is
// normalized and attributes foreign to the type are dropped. Order is left
// at zero; BuildFields assigns it.
func (s FieldSpec) Build(path string) (Field, error) {
	if s.Order != nil && *s.Order < 0 {
		return Field{}, invalid(path+".order", "must be non-negative")
	}

	var c Constraints
	switch s.Type {
	case FieldText:
		c = TextConstraints{MinLength: clone(s.MinLength), MaxLength: clone(s.MaxLength)}
	case FieldNumber:
		c = NumberConstraints{Min: clone(s.Min), Max: clone(s.Max), Step: clone(s.Step)}
	case FieldTextarea:
		c = TextareaConstraints{MinLength: clone(s.MinLength), MaxLength: clone(s.MaxLength), Rows: clone(s.Rows)}
	default:
		return Field{}, invalid(path+".type", "must be one of text, number, textarea")
	}
	if err := c.validate(path); err != nil {
		return Field{}, err
	}

	return Field{
		Label:       NormalizeLabel(s.Label),
		Placeholder: strings.TrimSpace(s.Placeholder),
		Required:    s.Required,
		Constraints: c,
	}, nil
}

// NormalizeLabel trims a label and substitutes UnnamedFieldLabel for blanks.
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return UnnamedFieldLabel
	}
	return label
}

// BuildFields validates specs and returns them as fields in display order:
// sorted by Order with unset orders last and ties kept in input order, then
// renumbered 0..n-1.
func BuildFields(specs []FieldSpec) ([]Field, error) {
	if len(specs) == 0 {
		return nil, invalid("fields", "at least one field is required")
	}

	type keyed struct {
		order *int
		field Field
	}
	built := make([]keyed, 0, len(specs))
	for i, s := range specs {
		f, err := s.Build(fmt.Sprintf("fields[%d]", i))
		if err != nil {
			return nil, err
		}
		built = append(built, keyed{order: s.Order, field: f})
	}
	sortByOrder(built, func(k keyed) *int { return k.order })

	fields := make([]Field, len(built))
	for i, k := range built {
		fields[i] = k.field
		fields[i].Order = i
	}
	return fields, nil
}

func sortByOrder[T any](items []T, order func(T) *int) {
	slices.SortStableFunc(items, func(a, b T) int {
		return cmp.Compare(orderKey(order(a)), orderKey(order(b)))
	})
}

func orderKey(order *int) int {
	if order == nil {
		return math.MaxInt
	}
	return *order
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
