package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemasCompile(t *testing.T) {
	for _, name := range []Name{VerificationEvidence, Milestones, TransactionMetadata} {
		t.Run(string(name), func(t *testing.T) {
			s, err := load(name)
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidate_VerificationEvidence(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"empty object", `{}`, false},
		{"full document", `{
			"portfolio_urls": ["https://github.com/ada"],
			"certifications": [{"name": "TensorFlow Developer", "issuer": "Google", "issued_at": "2023-04-01"}],
			"assessments": [{"name": "CV fundamentals", "score": 88}],
			"notes": "strong portfolio"
		}`, false},
		{"score above 100", `{"assessments": [{"name": "x", "score": 101}]}`, true},
		{"missing certification name", `{"certifications": [{"issuer": "Google"}]}`, true},
		{"unknown field", `{"favourite_color": "blue"}`, true},
		{"not an object", `[1,2,3]`, true},
		{"not json", `{oops`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(VerificationEvidence, []byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %T", err)
			assert.NotEmpty(t, ve.Errors)
			assert.Equal(t, VerificationEvidence, ve.Schema)
		})
	}
}

func TestValidate_Milestones(t *testing.T) {
	valid := `[{"id":"m1","title":"Kickoff","amount":250,"status":"PENDING","dueDate":"2024-06-01T00:00:00Z"}]`
	assert.NoError(t, Validate(Milestones, []byte(valid)))
	assert.NoError(t, Validate(Milestones, []byte(`[]`)))

	badStatus := `[{"id":"m1","title":"Kickoff","amount":250,"status":"LATE"}]`
	assert.Error(t, Validate(Milestones, []byte(badStatus)))

	negative := `[{"id":"m1","title":"Kickoff","amount":-1,"status":"PENDING"}]`
	assert.Error(t, Validate(Milestones, []byte(negative)))
}

func TestValidate_TransactionMetadata(t *testing.T) {
	assert.NoError(t, Validate(TransactionMetadata, []byte(`{"failureReason":"card declined","gateway":"stripe"}`)))
	assert.Error(t, Validate(TransactionMetadata, []byte(`{"failureReason":""}`)))
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	assert.NoError(t, ValidateJSONString(schemaContent, `{"name": "test"}`))
}

func TestValidateJSONString_NestedFieldPath(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string"}
				}
			}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"person": {}}`)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Errors[0].Field, "person")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Schema: Milestones,
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed against milestones")
	assert.Contains(t, msg, "name")
	assert.Equal(t, []string{"name: is required", "age: must be a number"}, err.Fields())
}
