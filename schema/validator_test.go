package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "count": {"type": "integer", "minimum": 0}
  },
  "required": ["name"]
}`

func TestValidator(t *testing.T) {
	v, err := NewValidator("test.json", []byte(testSchema))
	require.NoError(t, err)

	assert.NoError(t, v.Validate(map[string]interface{}{"name": "dev", "count": 2}))

	err = v.Validate(map[string]interface{}{"count": -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
	assert.Contains(t, err.Error(), "/count")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "test.json", verr.Schema)
	assert.Equal(t, []string{"/", "/count"}, verr.Paths())
}

func TestValidatorStruct(t *testing.T) {
	v, err := NewValidator("test.json", []byte(testSchema))
	require.NoError(t, err)

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	assert.NoError(t, v.Validate(doc{Name: "dev", Count: 1}))
}

func TestNewValidatorInvalidSchema(t *testing.T) {
	_, err := NewValidator("bad.json", []byte(`{"type": 12}`))
	assert.Error(t, err)
}
