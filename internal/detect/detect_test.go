// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"errors"
	"testing"

	"github.com/pdiddy/boxmd/pkg/types"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		want    types.FormatKind
		wantErr bool
	}{
		{
			name: "legacy atext",
			data: map[string]any{
				"atext": map[string]any{"text": "Hello\n", "attribs": "*0+5|1+1"},
			},
			want: types.FormatLegacy,
		},
		{
			name: "canvas doc",
			data: map[string]any{
				"doc": map[string]any{"type": "doc", "content": []any{}},
			},
			want: types.FormatCanvas,
		},
		{
			name: "canvas doc at top level",
			data: map[string]any{"type": "doc", "content": []any{}},
			want: types.FormatCanvas,
		},
		{
			name: "atext missing attribs",
			data: map[string]any{
				"atext": map[string]any{"text": "Hello\n"},
			},
			wantErr: true,
		},
		{
			name:    "atext not an object",
			data:    map[string]any{"atext": "nope"},
			wantErr: true,
		},
		{
			name: "doc with wrong type",
			data: map[string]any{
				"doc": map[string]any{"type": "fragment", "content": []any{}},
			},
			wantErr: true,
		},
		{
			name:    "neither key",
			data:    map[string]any{"title": "not a note"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Fatalf("Format() error = %v, want ErrUnknownFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Format() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
