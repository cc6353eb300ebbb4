// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/boxmd/pkg/types"
)

// Manifest records conversion outcomes and answers whether a note is
// unchanged since its last conversion. *manifest.Store implements it; a
// nil Manifest disables skip bookkeeping.
type Manifest interface {
	Unchanged(source string, format types.OutputFormat, hash string) bool
	Record(source string, format types.OutputFormat, hash, output string) error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of notes processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any notes failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts every .boxnote file under dir, printing per-file
// status to w and returning a summary. Failures never abort the batch.
// Output lands beside each note, or under outDir when set (preserving
// relative structure for recursive runs). With a manifest, notes whose
// content hash is unchanged are skipped.
func ConvertBatch(dir, outDir string, recursive bool, m Manifest, cfg types.ConvertConfig, w io.Writer) (BatchResult, error) {
	notes, err := FindNotes(dir, recursive)
	if err != nil {
		return BatchResult{}, err
	}
	if len(notes) == 0 {
		fmt.Fprintf(w, "no .boxnote files found in %s\n", dir)
		return BatchResult{}, nil
	}
	fmt.Fprintf(w, "found %d note(s)\n", len(notes))

	var result BatchResult
	for _, notePath := range notes {
		outBase, err := outputBase(notePath, dir, outDir, recursive)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(notePath), err)
			result.Failed++
			continue
		}

		raw, err := os.ReadFile(notePath)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(notePath), err)
			result.Failed++
			continue
		}
		hash := ContentHash(raw)

		if m != nil && m.Unchanged(notePath, cfg.Format, hash) {
			fmt.Fprintf(w, "skipped: %s (unchanged)\n", filepath.Base(notePath))
			result.Skipped++
			continue
		}

		switch ConvertRaw(raw, notePath, outBase, cfg, w) {
		case StatusConverted:
			result.Converted++
			if m != nil {
				if err := m.Record(notePath, cfg.Format, hash, outBase+cfg.Format.Extension()); err != nil {
					fmt.Fprintf(w, "warning: %s: %v\n", filepath.Base(notePath), err)
				}
			}
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// outputBase computes the extension-less output path for a note.
func outputBase(notePath, dir, outDir string, recursive bool) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(notePath), filepath.Ext(notePath))
	if outDir == "" {
		return filepath.Join(filepath.Dir(notePath), stem), nil
	}
	if !recursive {
		return filepath.Join(outDir, stem), nil
	}
	rel, err := filepath.Rel(dir, filepath.Dir(notePath))
	if err != nil {
		return "", fmt.Errorf("computing relative path: %w", err)
	}
	return filepath.Join(outDir, rel, stem), nil
}
