package maputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeysDocumentMappings(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  []string
	}{
		{
			name: "path templates",
			input: map[string]any{
				"/pet/{petId}": map[string]any{},
				"/pet":         map[string]any{},
				"/user":        nil,
			},
			want: []string{"/pet", "/pet/{petId}", "/user"},
		},
		{
			name:  "status codes",
			input: map[string]any{"default": nil, "404": nil, "200": nil, "4XX": nil},
			want:  []string{"200", "404", "4XX", "default"},
		},
		{name: "empty", input: map[string]any{}, want: []string{}},
		{name: "nil", input: nil, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortedKeys(tt.input)
			assert.Equal(t, tt.want, got)
			assert.NotNil(t, got)
		})
	}
}

func TestSortedKeysNamedMap(t *testing.T) {
	type headers map[string]string
	h := headers{"X-Trace": "1", "Accept": "*/*", "Content-Type": "text/plain"}
	assert.Equal(t, []string{"Accept", "Content-Type", "X-Trace"}, SortedKeys(h))
}
