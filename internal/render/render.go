// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns the unified document model into output text.
// Renderers never mutate the document and are deterministic: the same
// document renders to byte-identical output on every call.
package render

import (
	"github.com/pdiddy/boxmd/pkg/types"
)

// ImageResolver turns an image reference into a final renderable
// location. Implementations may perform blocking I/O. Different backends
// (extract-to-disk, passthrough) implement this interface.
type ImageResolver interface {
	Resolve(ref types.ImageRef, rctx types.ResolveContext) (string, error)
}

// resolveRef resolves through res, falling back to the raw reference on
// any resolver error or when no resolver is configured. Resolution
// failures never abort a conversion.
func resolveRef(res ImageResolver, ref types.ImageRef, rctx types.ResolveContext) string {
	if res == nil {
		return ref.Raw
	}
	loc, err := res.Resolve(ref, rctx)
	if err != nil {
		return ref.Raw
	}
	return loc
}
