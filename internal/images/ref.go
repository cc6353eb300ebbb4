// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images turns image references found during decode into
// renderable locations: it decodes and persists data-URI payloads,
// copies sidecar "Box Notes Images" files, and passes through or
// optionally downloads external URLs.
package images

import (
	"encoding/base64"
	"path"
	"strings"

	"github.com/pdiddy/boxmd/pkg/types"
)

// mimeExtensions maps image MIME types to file extensions for extracted
// payloads. Unknown types fall back to .png.
var mimeExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/jpg":     ".jpg",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
	"image/bmp":     ".bmp",
	"image/tiff":    ".tiff",
}

// extensionFor returns the file extension for a MIME type.
func extensionFor(mime string) string {
	if ext, ok := mimeExtensions[strings.ToLower(mime)]; ok {
		return ext
	}
	return ".png"
}

// ParseRef classifies a raw image source string into a tagged ImageRef.
// Data URIs are decoded eagerly; a payload that fails to decode keeps
// Kind RefDataURI with nil Data, so resolution fails and the renderer
// falls back to the raw string.
func ParseRef(src string) types.ImageRef {
	ref := types.ImageRef{Raw: src}

	switch {
	case strings.HasPrefix(src, "data:"):
		ref.Kind = types.RefDataURI
		ref.MIME, ref.Data = parseDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		ref.Kind = types.RefExternalURL
		ref.URL = src
	default:
		ref.Kind = types.RefLocalFile
		ref.Name = path.Base(src)
	}
	return ref
}

// parseDataURI splits data:[<mediatype>][;base64],<data> into its MIME
// type and decoded bytes. Returns nil bytes when the payload is
// malformed.
func parseDataURI(uri string) (string, []byte) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil
	}

	base64enc := false
	mime := meta
	if m, found := strings.CutSuffix(meta, ";base64"); found {
		base64enc = true
		mime = m
	}
	if mime == "" {
		mime = "application/octet-stream"
	}

	if !base64enc {
		return mime, []byte(payload)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return mime, nil
	}
	return mime, data
}
