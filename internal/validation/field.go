// Package validation implements the dynamic field validation rules: field
// definitions are checked when forms and fields are created or updated, and
// submitted values are checked against a form's active field definitions at
// submission time. Everything here is a pure function of its inputs; the
// error strings are the exact messages returned to clients in field-keyed
// error maps.
package validation

import (
	"errors"

	"github.com/iliyamo/dynamic-form-builder/internal/repository"
)

// The closed enumeration of field types. Note that email and multi_checkbox
// are accepted in definitions but have no value rule yet: submitting a value
// for them fails with ErrUnsupportedType.
const (
	TypeText          = "text"
	TypeEmail         = "email"
	TypeNumber        = "number"
	TypeDate          = "date"
	TypeFile          = "file"
	TypeCheckbox      = "checkbox"
	TypeMultiCheckbox = "multi_checkbox"
)

// Per-type validation errors. The messages are user-facing.
var (
	ErrRequired        = errors.New("This field is required")
	ErrNotString       = errors.New("Must be a string")
	ErrNotNumber       = errors.New("Must be a number")
	ErrNotDateString   = errors.New("Must be a date string")
	ErrNotBool         = errors.New("Must be true or false")
	ErrBadFileRef      = errors.New("Invalid file reference")
	ErrUnsupportedType = errors.New("Unsupported field type")
)

// fieldTypes is the set of declarable types.
var fieldTypes = map[string]bool{
	TypeText:          true,
	TypeEmail:         true,
	TypeNumber:        true,
	TypeDate:          true,
	TypeFile:          true,
	TypeCheckbox:      true,
	TypeMultiCheckbox: true,
}

// KnownType reports whether t is part of the field type enumeration.
func KnownType(t string) bool { return fieldTypes[t] }

// ValidateValue checks one submitted value against its field definition.
// A nil value is accepted unless the field is required. Present values are
// dispatched on the declared type; types without a rule (multi_checkbox,
// email, or anything outside the enumeration that reached storage) fail
// with ErrUnsupportedType. Date strings are not parsed: any string passes,
// format checking is deferred to clients.
func ValidateValue(f *repository.Field, value any) error {
	if value == nil {
		if f.Required {
			return ErrRequired
		}
		return nil
	}

	switch f.Type {
	case TypeText:
		if _, ok := value.(string); !ok {
			return ErrNotString
		}
	case TypeNumber:
		switch value.(type) {
		case int, int32, int64, float32, float64:
		default:
			return ErrNotNumber
		}
	case TypeDate:
		if _, ok := value.(string); !ok {
			return ErrNotDateString
		}
	case TypeCheckbox:
		if _, ok := value.(bool); !ok {
			return ErrNotBool
		}
	case TypeFile:
		// The value is an opaque reference to an already uploaded file
		// (token or URL); only its shape is checked here.
		if _, ok := value.(string); !ok {
			return ErrBadFileRef
		}
	default:
		return ErrUnsupportedType
	}
	return nil
}

// ValidateDefinition checks a field definition's own consistency and
// returns a map of attribute name to error message, or nil when the
// definition is valid. File fields must declare both allowed_extensions
// and max_size_mb; this is enforced here at request time, not by the store.
func ValidateDefinition(f *repository.Field) map[string]string {
	errs := map[string]string{}

	if f.Name == "" {
		errs["name"] = "This field is required"
	}
	if f.Label == "" {
		errs["label"] = "This field is required"
	}
	if !KnownType(f.Type) {
		errs["type"] = "Invalid field type"
	}
	if f.Type == TypeFile {
		if len(f.AllowedExtensions) == 0 {
			errs["allowed_extensions"] = "This field is required for file type"
		}
		if f.MaxSizeMB == nil || *f.MaxSizeMB < 1 {
			errs["max_size_mb"] = "This field is required for file type"
		}
	}
	if f.MinLength != nil && *f.MinLength < 0 {
		errs["min_length"] = "Must be zero or greater"
	}
	if f.MaxLength != nil && *f.MaxLength < 1 {
		errs["max_length"] = "Must be one or greater"
	}
	if f.Order < 0 {
		errs["order"] = "Must be zero or greater"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateSubmission runs a full submission against a form's active fields.
// Every field is checked (no short-circuit); per-field failures collect
// into the returned error map keyed by field name. After the per-field
// pass, required fields that ended up without an accepted value are flagged
// unless already flagged. On success the cleaned map holds exactly the
// fields that had a non-nil accepted value.
func ValidateSubmission(fields []*repository.Field, values map[string]any) (map[string]any, map[string]string) {
	cleaned := map[string]any{}
	errs := map[string]string{}

	for _, f := range fields {
		value := values[f.Name] // missing -> nil
		if err := ValidateValue(f, value); err != nil {
			errs[f.Name] = err.Error()
			continue
		}
		if value != nil {
			cleaned[f.Name] = value
		}
	}

	for _, f := range fields {
		if f.Required {
			if _, ok := cleaned[f.Name]; !ok {
				if _, flagged := errs[f.Name]; !flagged {
					errs[f.Name] = ErrRequired.Error()
				}
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return cleaned, nil
}
