// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates the conversion pipeline: parse the note
// file, detect its encoding, decode to the unified model, render to the
// requested output formats, and write the results.
package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/boxmd/internal/detect"
	"github.com/pdiddy/boxmd/internal/images"
	"github.com/pdiddy/boxmd/internal/legacy"
	"github.com/pdiddy/boxmd/internal/render"
	"github.com/pdiddy/boxmd/internal/tree"
	"github.com/pdiddy/boxmd/pkg/types"
)

// Status is the outcome of converting one note.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Decode parses a note object into the unified document model. When
// force is FormatAuto the encoding is detected; otherwise detection is
// bypassed and the forced decoder runs, still subject to its own
// structural failures.
func Decode(data map[string]any, force types.FormatKind) (*types.Document, error) {
	kind := force
	if kind == types.FormatAuto {
		detected, err := detect.Format(data)
		if err != nil {
			return nil, err
		}
		kind = detected
	}

	switch kind {
	case types.FormatLegacy:
		return legacy.Parse(data, legacy.Options{})
	case types.FormatCanvas:
		return tree.Parse(data)
	default:
		return nil, fmt.Errorf("unsupported format kind %q", kind)
	}
}

// Render produces the output text for one single-target format. Decode
// must have fully completed; rendering never mutates the document.
func Render(doc *types.Document, format types.OutputFormat, res render.ImageResolver, sourcePath string) string {
	if format == types.FormatText {
		return render.PlainText(doc, res, sourcePath)
	}
	return render.Markdown(doc, res, sourcePath)
}

// ContentHash returns the hex sha256 of raw note bytes, used as the
// manifest change key.
func ContentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// ConvertNote converts a single note file, writing output files next to
// outBase (outBase + ".md" / ".txt" depending on cfg.Format). Status and
// any failure reason are printed to w.
func ConvertNote(notePath, outBase string, cfg types.ConvertConfig, w io.Writer) Status {
	raw, err := os.ReadFile(notePath)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(notePath), err)
		return StatusFailed
	}
	return ConvertRaw(raw, notePath, outBase, cfg, w)
}

// ConvertRaw converts already-read note bytes. Batch callers use it to
// hash content once.
func ConvertRaw(raw []byte, notePath, outBase string, cfg types.ConvertConfig, w io.Writer) Status {
	name := filepath.Base(notePath)

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		fmt.Fprintf(w, "failed:  %s (invalid JSON: %v)\n", name, err)
		return StatusFailed
	}

	doc, err := Decode(data, cfg.Force)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return StatusFailed
	}
	if cfg.Verbose {
		fmt.Fprintf(w, "  parsed %d blocks (%s format)\n", doc.BlockCount(), doc.Meta.Format)
	}

	outDir := filepath.Dir(outBase)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return StatusFailed
	}
	res := newResolver(outDir, cfg, w)

	for _, format := range targetFormats(cfg.Format) {
		content := Render(doc, format, res, notePath)
		if format == types.FormatMarkdown && cfg.Frontmatter {
			content = withFrontmatter(doc.Meta, content)
		}

		outPath := outBase + format.Extension()
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			return StatusFailed
		}
		if cfg.Verbose {
			fmt.Fprintf(w, "  wrote %s\n", outPath)
		}
	}

	fmt.Fprintf(w, "converted: %s\n", name)
	return StatusConverted
}

// targetFormats expands FormatBoth into its single-target formats.
func targetFormats(f types.OutputFormat) []types.OutputFormat {
	if f == types.FormatBoth {
		return []types.OutputFormat{types.FormatMarkdown, types.FormatText}
	}
	if f == types.FormatText {
		return []types.OutputFormat{types.FormatText}
	}
	return []types.OutputFormat{types.FormatMarkdown}
}

func newResolver(outDir string, cfg types.ConvertConfig, w io.Writer) *images.DirResolver {
	res := &images.DirResolver{
		OutDir:    outDir,
		DirName:   cfg.Images.DirName,
		UserAgent: cfg.Images.UserAgent,
	}
	if cfg.Images.Download {
		res.Client = &http.Client{Timeout: cfg.Images.Timeout}
	}
	if cfg.Verbose {
		res.Log = w
	}
	return res
}

// withFrontmatter prepends YAML frontmatter carrying the note metadata.
func withFrontmatter(meta types.Metadata, body string) string {
	out, err := yaml.Marshal(meta)
	if err != nil {
		return body
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(out)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}

// FindNotes lists the .boxnote files under dir, sorted. With recursive
// set, subdirectories are walked too.
func FindNotes(dir string, recursive bool) ([]string, error) {
	var found []string

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".boxnote") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", dir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".boxnote") {
				found = append(found, filepath.Join(dir, entry.Name()))
			}
		}
	}

	sort.Strings(found)
	return found, nil
}
