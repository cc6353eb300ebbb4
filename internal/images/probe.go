// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"bytes"
	"image"

	// Decoders registered for DecodeConfig. Box notes embed PNG and JPEG
	// almost exclusively; the x/image formats show up in sidecar files.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Probe reports the pixel dimensions of an encoded image. ok is false
// when the format is unrecognized (e.g. SVG).
func Probe(data []byte) (width, height int, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
