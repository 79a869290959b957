package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResume = `{
  "contact": {"name": "Jane Doe", "email": "jane@example.com"},
  "summary": "Backend engineer",
  "experience": [
    {
      "title": "Engineer",
      "company": "Acme",
      "dates": "2020 - 2023",
      "description": ["Led the platform migration"]
    }
  ],
  "education": [{"degree": "BS CS", "institution": "State University"}],
  "skills": ["Go", "PostgreSQL"],
  "certifications": [{"name": "CKA"}]
}`

func TestValidateOptimizedResumeValid(t *testing.T) {
	assert.NoError(t, ValidateOptimizedResume(validResume))
}

func TestValidateOptimizedResumeMissingContact(t *testing.T) {
	err := ValidateOptimizedResume(`{"experience": []}`)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Error(), "contact")
}

func TestValidateOptimizedResumeMissingExperienceFields(t *testing.T) {
	err := ValidateOptimizedResume(`{
	  "contact": {"name": "Jane"},
	  "experience": [{"title": "Engineer"}]
	}`)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	fields := make([]string, 0, len(validationErr.Errors))
	for _, fe := range validationErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "experience.0")
}

func TestValidateOptimizedResumeRejectsUnknownFields(t *testing.T) {
	err := ValidateOptimizedResume(`{
	  "contact": {"name": "Jane"},
	  "experience": [],
	  "favorite_color": "green"
	}`)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestValidateOptimizedResumeMalformedJSON(t *testing.T) {
	err := ValidateOptimizedResume(`{not json`)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "ok"}`))

	err := ValidateJSONString(schema, `{}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}
