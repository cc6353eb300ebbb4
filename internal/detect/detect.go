// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detect decides which note encoding a parsed top-level object
// uses: the pre-2022 legacy operator-stream encoding or the post-2022
// canvas node tree.
package detect

import (
	"errors"
	"fmt"

	"github.com/pdiddy/boxmd/pkg/types"
)

// ErrUnknownFormat is returned when the object matches neither encoding.
var ErrUnknownFormat = errors.New("unknown note format")

// Format inspects data and returns the encoding it carries. A top-level
// "atext" object with text and attribs selects the legacy path; a
// top-level "doc" object of type "doc" (or the object itself being such a
// node) selects the canvas path.
func Format(data map[string]any) (types.FormatKind, error) {
	if raw, ok := data["atext"]; ok {
		atext, ok := raw.(map[string]any)
		if !ok {
			return "", fmt.Errorf("%w: atext is not an object", ErrUnknownFormat)
		}
		if _, ok := atext["text"].(string); !ok {
			return "", fmt.Errorf("%w: atext missing text", ErrUnknownFormat)
		}
		if _, ok := atext["attribs"].(string); !ok {
			return "", fmt.Errorf("%w: atext missing attribs", ErrUnknownFormat)
		}
		return types.FormatLegacy, nil
	}

	if raw, ok := data["doc"]; ok {
		doc, ok := raw.(map[string]any)
		if !ok {
			return "", fmt.Errorf("%w: doc is not an object", ErrUnknownFormat)
		}
		if doc["type"] != "doc" {
			return "", fmt.Errorf("%w: doc.type is %v, want doc", ErrUnknownFormat, doc["type"])
		}
		if _, ok := doc["content"]; !ok {
			return "", fmt.Errorf("%w: doc missing content", ErrUnknownFormat)
		}
		return types.FormatCanvas, nil
	}

	// Some exports store the document node at the top level.
	if data["type"] == "doc" {
		if _, ok := data["content"]; ok {
			return types.FormatCanvas, nil
		}
	}

	return "", fmt.Errorf("%w: expected atext (legacy) or doc (canvas) key", ErrUnknownFormat)
}
