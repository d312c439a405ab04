package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildRecordJSONSchema()

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "valid entries",
			payload: `{"entries":[{"key":"Name","value":"Alice"},{"key":"Role","value":"Engineer","comments":"from page 2"}]}`,
			wantErr: false,
		},
		{
			name:    "empty entries list",
			payload: `{"entries":[]}`,
			wantErr: false,
		},
		{
			name:    "missing entries",
			payload: `{}`,
			wantErr: true,
		},
		{
			name:    "entry missing key",
			payload: `{"entries":[{"value":"Alice"}]}`,
			wantErr: true,
		},
		{
			name:    "empty key",
			payload: `{"entries":[{"key":"","value":"Alice"}]}`,
			wantErr: true,
		},
		{
			name:    "null comments rejected by strict pass",
			payload: `{"entries":[{"key":"Name","value":"Alice","comments":null}]}`,
			wantErr: true,
		},
		{
			name:    "unexpected extra field",
			payload: `{"entries":[{"key":"Name","value":"Alice","confidence":0.9}]}`,
			wantErr: true,
		},
		{
			name:    "entries not a list",
			payload: `{"entries":{"key":"Name"}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			payload: `this is not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONAgainstSchema(schema, []byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeRecords(t *testing.T) {
	t.Run("drops null comments", func(t *testing.T) {
		in := []byte(`{"entries":[{"key":"Name","value":"Alice","comments":null}]}`)
		out, touched, err := SanitizeRecords(in)
		require.NoError(t, err)
		assert.Equal(t, []string{"entries[0].comments"}, touched)

		require.NoError(t, ValidateJSONAgainstSchema(BuildRecordJSONSchema(), out))

		var res ExtractionResult
		require.NoError(t, json.Unmarshal(out, &res))
		require.Len(t, res.Entries, 1)
		assert.Equal(t, "Alice", res.Entries[0].Value)
		assert.Empty(t, res.Entries[0].Comments)
	})

	t.Run("stringifies numeric comments", func(t *testing.T) {
		in := []byte(`{"entries":[{"key":"Total","value":"42","comments":7}]}`)
		out, touched, err := SanitizeRecords(in)
		require.NoError(t, err)
		assert.Len(t, touched, 1)

		var res ExtractionResult
		require.NoError(t, json.Unmarshal(out, &res))
		assert.Equal(t, "7", res.Entries[0].Comments)
	})

	t.Run("leaves required violations alone", func(t *testing.T) {
		in := []byte(`{"entries":[{"value":"no key here","comments":null}]}`)
		out, _, err := SanitizeRecords(in)
		require.NoError(t, err)
		// Still fails validation: sanitize never invents required fields.
		assert.Error(t, ValidateJSONAgainstSchema(BuildRecordJSONSchema(), out))
	})

	t.Run("invalid json", func(t *testing.T) {
		_, _, err := SanitizeRecords([]byte(`{`))
		assert.Error(t, err)
	})
}
