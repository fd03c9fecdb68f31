package tconf

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Schema is the external collaborator spec.md §1 and §4.7 call the "schema
// validator": it gates the merged, placeholder-resolved tree and either
// returns a typed value or a validation error carrying an issue list.
type Schema[T any] interface {
	SafeParse(tree map[string]any) (T, error)
}

// StructSchema is the default Schema[T] implementation: it decodes tree
// into *T via a yaml.v3 marshal/unmarshal round trip (the same technique
// the teacher's Engine.Load uses to move a generic tree onto a typed
// struct) and then runs go-playground/validator's `validate` tags over the
// result, the same gate the teacher's Engine.Load applies.
type StructSchema[T any] struct {
	Validate *validator.Validate
}

// NewStructSchema creates a StructSchema using a fresh default validator.
// Pass a pre-configured *validator.Validate via the Validate field directly
// if custom tag registrations are needed.
func NewStructSchema[T any]() *StructSchema[T] {
	return &StructSchema[T]{Validate: validator.New()}
}

// SafeParse implements Schema[T].
func (s *StructSchema[T]) SafeParse(tree map[string]any) (T, error) {
	var zero T

	data, err := yaml.Marshal(tree)
	if err != nil {
		return zero, &ConfigError{Message: "encoding merged configuration for struct decode", Err: err}
	}

	var out T
	if err := yaml.Unmarshal(data, &out); err != nil {
		return zero, &ConfigError{Message: "decoding merged configuration into target type", Err: err}
	}

	v := s.Validate
	if v == nil {
		v = validator.New()
	}

	if err := v.Struct(out); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return zero, &ConfigValidationError{Err: err}
		}

		issues := make([]Issue, 0, len(validationErrs))
		for _, fe := range validationErrs {
			issues = append(issues, Issue{
				Path:    fe.Namespace(),
				Message: fmt.Sprintf("failed on the %q tag", fe.Tag()),
			})
		}

		return zero, &ConfigValidationError{Issues: issues, Err: err}
	}

	return out, nil
}
