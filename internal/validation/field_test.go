package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dynamic-form-builder/internal/repository"
)

func intPtr(n int) *int { return &n }

func TestValidateValue_TypeDispatch(t *testing.T) {
	cases := []struct {
		name  string
		ftype string
		value any
		want  error
	}{
		{"text accepts string", TypeText, "hello", nil},
		{"text rejects number", TypeText, 42.0, ErrNotString},
		{"number accepts float", TypeNumber, 3.14, nil},
		{"number accepts int", TypeNumber, 7, nil},
		{"number rejects string", TypeNumber, "7", ErrNotNumber},
		{"date accepts any string", TypeDate, "not even a date", nil},
		{"date rejects number", TypeDate, 20240101.0, ErrNotDateString},
		{"checkbox accepts bool", TypeCheckbox, true, nil},
		{"checkbox rejects string", TypeCheckbox, "true", ErrNotBool},
		{"file accepts reference string", TypeFile, "uploads/abc123", nil},
		{"file rejects non-string", TypeFile, 5.0, ErrBadFileRef},
		{"email has no value rule", TypeEmail, "a@b.c", ErrUnsupportedType},
		{"multi_checkbox has no value rule", TypeMultiCheckbox, []any{"a"}, ErrUnsupportedType},
		{"unknown type", "slider", 1.0, ErrUnsupportedType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &repository.Field{Name: "f", Label: "F", Type: tc.ftype}
			assert.Equal(t, tc.want, ValidateValue(f, tc.value))
		})
	}
}

func TestValidateValue_NilHonorsRequired(t *testing.T) {
	required := &repository.Field{Name: "f", Label: "F", Type: TypeText, Required: true}
	optional := &repository.Field{Name: "f", Label: "F", Type: TypeText}

	assert.Equal(t, ErrRequired, ValidateValue(required, nil))
	assert.NoError(t, ValidateValue(optional, nil))

	// A nil value on an unsupported type is still fine when optional: the
	// type dispatch runs only for present values.
	optionalEmail := &repository.Field{Name: "f", Label: "F", Type: TypeEmail}
	assert.NoError(t, ValidateValue(optionalEmail, nil))
}

func TestValidateDefinition_FileTypeAttributes(t *testing.T) {
	f := &repository.Field{Name: "doc", Label: "Document", Type: TypeFile}
	errs := ValidateDefinition(f)
	require.NotNil(t, errs)
	assert.Contains(t, errs, "allowed_extensions")
	assert.Contains(t, errs, "max_size_mb")

	f.AllowedExtensions = []string{".pdf", ".png"}
	f.MaxSizeMB = intPtr(10)
	assert.Nil(t, ValidateDefinition(f))
}

func TestValidateDefinition_BasicAttributes(t *testing.T) {
	errs := ValidateDefinition(&repository.Field{Type: "nope", Order: -1})
	require.NotNil(t, errs)
	assert.Equal(t, "This field is required", errs["name"])
	assert.Equal(t, "This field is required", errs["label"])
	assert.Equal(t, "Invalid field type", errs["type"])
	assert.Equal(t, "Must be zero or greater", errs["order"])

	ok := &repository.Field{Name: "age", Label: "Age", Type: TypeNumber}
	assert.Nil(t, ValidateDefinition(ok))
}

func TestValidateSubmission_CollectsAllErrors(t *testing.T) {
	fields := []*repository.Field{
		{Name: "name", Label: "Name", Type: TypeText, Required: true},
		{Name: "age", Label: "Age", Type: TypeNumber},
		{Name: "subscribed", Label: "Subscribed", Type: TypeCheckbox},
	}
	values := map[string]any{
		"age":        "forty", // wrong type
		"subscribed": "yes",   // wrong type
		// "name" missing entirely
	}

	cleaned, errs := ValidateSubmission(fields, values)
	require.Nil(t, cleaned)
	require.Len(t, errs, 3)
	assert.Equal(t, "This field is required", errs["name"])
	assert.Equal(t, "Must be a number", errs["age"])
	assert.Equal(t, "Must be true or false", errs["subscribed"])
}

func TestValidateSubmission_CleanedHoldsOnlyPresentValues(t *testing.T) {
	fields := []*repository.Field{
		{Name: "name", Label: "Name", Type: TypeText, Required: true},
		{Name: "nickname", Label: "Nickname", Type: TypeText},
	}
	values := map[string]any{"name": "Ada"}

	cleaned, errs := ValidateSubmission(fields, values)
	require.Nil(t, errs)
	assert.Equal(t, map[string]any{"name": "Ada"}, cleaned)
}

func TestValidateSubmission_UnknownKeysDropped(t *testing.T) {
	fields := []*repository.Field{
		{Name: "name", Label: "Name", Type: TypeText},
	}
	values := map[string]any{"name": "Ada", "extra": "ignored"}

	cleaned, errs := ValidateSubmission(fields, values)
	require.Nil(t, errs)
	_, has := cleaned["extra"]
	assert.False(t, has)
}

func TestValidateSubmission_RequiredFlaggedOnce(t *testing.T) {
	// A required field with a wrong-typed value keeps the type error, not
	// the required one.
	fields := []*repository.Field{
		{Name: "age", Label: "Age", Type: TypeNumber, Required: true},
	}
	_, errs := ValidateSubmission(fields, map[string]any{"age": "x"})
	require.Len(t, errs, 1)
	assert.Equal(t, "Must be a number", errs["age"])
}

func TestValidateSubmission_EmptyFormAcceptsAnything(t *testing.T) {
	cleaned, errs := ValidateSubmission(nil, map[string]any{"whatever": 1})
	require.Nil(t, errs)
	assert.Empty(t, cleaned)
}

func TestKnownType(t *testing.T) {
	for _, ft := range []string{TypeText, TypeEmail, TypeNumber, TypeDate, TypeFile, TypeCheckbox, TypeMultiCheckbox} {
		assert.True(t, KnownType(ft), ft)
	}
	assert.False(t, KnownType("textarea"))
	assert.False(t, KnownType(""))
}
