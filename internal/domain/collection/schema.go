package collection

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind is the input affordance of a field.
type Kind string

const (
	KindText     Kind = "text"
	KindLongText Kind = "textarea"
	KindMonth    Kind = "month"
	KindURL      Kind = "url"
	KindTags     Kind = "tags"
	KindBool     Kind = "bool"
)

type IssueCode string

const (
	IssueRequired   IssueCode = "required"
	IssueInvalidURL IssueCode = "invalid_url"
)

// Issue is an inline hint about a field. Issues never block editing or saving.
type Issue struct {
	Field   string    `json:"field"`
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

var validate = validator.New()

// Field declares one editable field of T.
type Field[T any] struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool

	get func(T) any
	set func(T, any) (T, error)
}

type FieldSpec struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Kind     Kind   `json:"kind"`
	Required bool   `json:"required"`
}

type SchemaSpec struct {
	Entity string      `json:"entity"`
	Fields []FieldSpec `json:"fields"`
}

func Text[T any](name, label string, required bool, ref func(*T) *string) Field[T] {
	return stringField(KindText, name, label, required, ref)
}

func LongText[T any](name, label string, required bool, ref func(*T) *string) Field[T] {
	return stringField(KindLongText, name, label, required, ref)
}

// Month holds a "YYYY-MM" value. The format is an input affordance only.
func Month[T any](name, label string, required bool, ref func(*T) *string) Field[T] {
	return stringField(KindMonth, name, label, required, ref)
}

func URL[T any](name, label string, required bool, ref func(*T) *string) Field[T] {
	return stringField(KindURL, name, label, required, ref)
}

func Bool[T any](name, label string, ref func(*T) *bool) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Kind:  KindBool,
		get:   func(e T) any { return *ref(&e) },
		set: func(e T, v any) (T, error) {
			b, ok := v.(bool)
			if !ok {
				return e, fmt.Errorf("%w: %s expects a boolean", ErrInvalidValue, name)
			}
			*ref(&e) = b
			return e, nil
		},
	}
}

// Tags is a multi-select list. Values are trimmed, empty values dropped and
// duplicates removed keeping the first occurrence.
func Tags[T any](name, label string, required bool, ref func(*T) *[]string) Field[T] {
	return Field[T]{
		Name:     name,
		Label:    label,
		Kind:     KindTags,
		Required: required,
		get:      func(e T) any { return *ref(&e) },
		set: func(e T, v any) (T, error) {
			tags, err := toTags(v)
			if err != nil {
				return e, fmt.Errorf("%w: %s expects a list of strings", ErrInvalidValue, name)
			}
			*ref(&e) = tags
			return e, nil
		},
	}
}

func stringField[T any](kind Kind, name, label string, required bool, ref func(*T) *string) Field[T] {
	return Field[T]{
		Name:     name,
		Label:    label,
		Kind:     kind,
		Required: required,
		get:      func(e T) any { return *ref(&e) },
		set: func(e T, v any) (T, error) {
			var s string
			switch val := v.(type) {
			case nil:
			case string:
				s = val
			default:
				return e, fmt.Errorf("%w: %s expects a string", ErrInvalidValue, name)
			}
			*ref(&e) = s
			return e, nil
		},
	}
}

func toTags(v any) ([]string, error) {
	var raw []string
	switch val := v.(type) {
	case nil:
	case []string:
		raw = val
	case []any:
		raw = make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, ErrInvalidValue
			}
			raw = append(raw, s)
		}
	default:
		return nil, ErrInvalidValue
	}

	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags, nil
}

// Schema is the ordered field declaration of one entity type.
type Schema[T any] struct {
	entity string
	fields []Field[T]
	index  map[string]int
}

// NewSchema panics on duplicate field names; schemas are declared at init time.
func NewSchema[T any](entity string, fields ...Field[T]) *Schema[T] {
	s := &Schema[T]{entity: entity, fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("collection: duplicate field %q in %s schema", f.Name, entity))
		}
		s.index[f.Name] = i
	}
	return s
}

func (s *Schema[T]) Entity() string { return s.entity }

func (s *Schema[T]) Field(name string) (Field[T], bool) {
	i, ok := s.index[name]
	if !ok {
		return Field[T]{}, false
	}
	return s.fields[i], true
}

func (s *Schema[T]) Get(entry T, name string) (any, bool) {
	f, ok := s.Field(name)
	if !ok {
		return nil, false
	}
	return f.get(entry), true
}

// Set returns a copy of entry with the field replaced.
func (s *Schema[T]) Set(entry T, name string, value any) (T, error) {
	f, ok := s.Field(name)
	if !ok {
		return entry, fmt.Errorf("%w: %s.%s", ErrUnknownField, s.entity, name)
	}
	return f.set(entry, value)
}

// Issues reports missing required fields and malformed URLs, in field order.
func (s *Schema[T]) Issues(entry T) []Issue {
	var issues []Issue
	for _, f := range s.fields {
		v := f.get(entry)
		if f.Required && isEmpty(v) {
			issues = append(issues, Issue{
				Field:   f.Name,
				Code:    IssueRequired,
				Message: fmt.Sprintf("%s is required", f.Label),
			})
			continue
		}
		if f.Kind == KindURL {
			if str, _ := v.(string); str != "" && !IsValidURL(str) {
				issues = append(issues, Issue{
					Field:   f.Name,
					Code:    IssueInvalidURL,
					Message: fmt.Sprintf("%s is not a valid URL", f.Label),
				})
			}
		}
	}
	return issues
}

func (s *Schema[T]) Spec() SchemaSpec {
	spec := SchemaSpec{Entity: s.entity, Fields: make([]FieldSpec, len(s.fields))}
	for i, f := range s.fields {
		spec.Fields[i] = FieldSpec{Name: f.Name, Label: f.Label, Kind: f.Kind, Required: f.Required}
	}
	return spec
}

// IsValidURL reports whether s parses as an absolute URL. Only such URLs may be
// offered as "open externally" links.
func IsValidURL(s string) bool {
	return validate.Var(s, "required,url") == nil
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case nil:
		return true
	default:
		return false
	}
}
