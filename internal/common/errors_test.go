package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewAppError("CONFIG_ERROR", "bad value", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "CONFIG_ERROR")
	assert.Contains(t, err.Error(), "boom")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{
			name: "extraction",
			err:  fmt.Errorf("%w: corrupt stream", ErrExtraction),
			want: "could not read the PDF",
		},
		{
			name: "client",
			err:  fmt.Errorf("%w: missing API key", ErrExtractionClient),
			want: "extraction failed",
		},
		{
			name: "render",
			err:  fmt.Errorf("%w: bad row", ErrRender),
			want: "could not build the spreadsheet",
		},
		{
			name: "unclassified",
			err:  errors.New("surprise"),
			want: "an error occurred during processing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}
