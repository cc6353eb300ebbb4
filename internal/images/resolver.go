// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package images

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/boxmd/pkg/types"
)

// sidecarDirName is where the Box desktop client stores note images:
// {note dir}/Box Notes Images/{note name} Images/.
const sidecarDirName = "Box Notes Images"

// ErrNotFound is returned when a sidecar image file cannot be located.
var ErrNotFound = errors.New("image not found")

// DirResolver resolves image references against an output directory. It
// writes extracted payloads under OutDir/DirName and returns paths
// relative to OutDir, suitable for embedding in the rendered output.
//
// All resolution errors are reported to the caller; the renderers treat
// them as non-fatal and fall back to the raw reference.
type DirResolver struct {
	// OutDir is the directory the converted note is written to.
	OutDir string

	// DirName is the images subdirectory name (default "images").
	DirName string

	// Client enables downloading of external URLs. When nil, external
	// references pass through unchanged.
	Client *http.Client

	// UserAgent is sent with download requests.
	UserAgent string

	// Log receives per-image detail lines when non-nil.
	Log io.Writer
}

// Resolve turns ref into a renderable location. Data-URI payloads are
// persisted under the images directory; local files are copied out of the
// note's sidecar directory; external URLs pass through or, when a Client
// is configured, are downloaded.
func (r *DirResolver) Resolve(ref types.ImageRef, rctx types.ResolveContext) (string, error) {
	switch ref.Kind {
	case types.RefDataURI:
		if len(ref.Data) == 0 {
			return "", fmt.Errorf("image %d: empty or undecodable data URI", rctx.Index)
		}
		return r.save(ref.Data, extensionFor(ref.MIME))

	case types.RefExternalURL:
		if r.Client == nil {
			return ref.URL, nil
		}
		data, ext, err := r.fetch(ref.URL)
		if err != nil {
			return "", fmt.Errorf("image %d: downloading %s: %w", rctx.Index, ref.URL, err)
		}
		return r.save(data, ext)

	case types.RefLocalFile:
		src, err := findSidecar(rctx.SourcePath, ref.Name)
		if err != nil {
			return "", fmt.Errorf("image %d: %w", rctx.Index, err)
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return "", fmt.Errorf("image %d: reading sidecar file: %w", rctx.Index, err)
		}
		return r.save(data, strings.ToLower(filepath.Ext(ref.Name)))

	default:
		return "", fmt.Errorf("image %d: unrecognized reference kind %q", rctx.Index, ref.Kind)
	}
}

// save writes data as image_<sha1><ext> under the images directory and
// returns the relative path. Content-hash naming deduplicates repeated
// payloads across a note.
func (r *DirResolver) save(data []byte, ext string) (string, error) {
	dirName := r.DirName
	if dirName == "" {
		dirName = "images"
	}
	if ext == "" {
		ext = ".png"
	}

	sum := sha1.Sum(data)
	name := "image_" + hex.EncodeToString(sum[:]) + ext
	dir := filepath.Join(r.OutDir, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating images directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}

	rel := path.Join(dirName, name)
	if r.Log != nil {
		if w, h, ok := Probe(data); ok {
			fmt.Fprintf(r.Log, "  extracted: %s (%dx%d)\n", rel, w, h)
		} else {
			fmt.Fprintf(r.Log, "  extracted: %s\n", rel)
		}
	}
	return rel, nil
}

// findSidecar locates name inside the note's sidecar images directory.
// Directory names are compared NFC-normalized: macOS stores NFD filenames
// and the note path may carry either form.
func findSidecar(notePath, name string) (string, error) {
	if notePath == "" {
		return "", fmt.Errorf("%w: no source path for sidecar lookup: %s", ErrNotFound, name)
	}

	stem := strings.TrimSuffix(filepath.Base(notePath), filepath.Ext(notePath))
	root := filepath.Join(filepath.Dir(notePath), sidecarDirName)
	want := norm.NFC.String(stem + " Images")

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s (no %s directory)", ErrNotFound, name, sidecarDirName)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if norm.NFC.String(entry.Name()) != want {
			continue
		}
		candidate := filepath.Join(root, entry.Name(), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}
