// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/boxmd/pkg/types"
)

const legacyNote = `{
	"atext": {"text": "Hello\n", "attribs": "*0+5|1"},
	"pool": {"numToAttrib": {"0": ["bold", "true"]}}
}`

const canvasNote = `{
	"doc": {"type": "doc", "content": [
		{"type": "paragraph", "content": [{"type": "text", "text": "hi"}]}
	]}
}`

func writeNote(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing note: %v", err)
	}
	return path
}

func TestConvertNoteLegacy(t *testing.T) {
	dir := t.TempDir()
	notePath := writeNote(t, dir, "memo.boxnote", legacyNote)
	outBase := filepath.Join(dir, "memo")

	var buf bytes.Buffer
	status := ConvertNote(notePath, outBase, types.ConvertConfig{Format: types.FormatMarkdown}, &buf)
	if status != StatusConverted {
		t.Fatalf("status = %v, output:\n%s", status, buf.String())
	}
	if !strings.Contains(buf.String(), "converted: memo.boxnote") {
		t.Errorf("status output = %q", buf.String())
	}

	out, err := os.ReadFile(outBase + ".md")
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(out) != "**Hello**\n" {
		t.Errorf("markdown = %q", out)
	}
}

func TestConvertNoteBothFormats(t *testing.T) {
	dir := t.TempDir()
	notePath := writeNote(t, dir, "memo.boxnote", canvasNote)
	outBase := filepath.Join(dir, "memo")

	var buf bytes.Buffer
	status := ConvertNote(notePath, outBase, types.ConvertConfig{Format: types.FormatBoth}, &buf)
	if status != StatusConverted {
		t.Fatalf("status = %v, output:\n%s", status, buf.String())
	}
	for _, ext := range []string{".md", ".txt"} {
		if _, err := os.Stat(outBase + ext); err != nil {
			t.Errorf("missing %s output: %v", ext, err)
		}
	}
}

func TestConvertNoteInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	notePath := writeNote(t, dir, "broken.boxnote", "{not json")

	var buf bytes.Buffer
	status := ConvertNote(notePath, filepath.Join(dir, "broken"), types.ConvertConfig{Format: types.FormatMarkdown}, &buf)
	if status != StatusFailed {
		t.Fatalf("status = %v", status)
	}
	if !strings.Contains(buf.String(), "failed:") {
		t.Errorf("status output = %q", buf.String())
	}
}

func TestConvertNoteMissingFile(t *testing.T) {
	var buf bytes.Buffer
	status := ConvertNote(filepath.Join(t.TempDir(), "absent.boxnote"), "out", types.ConvertConfig{}, &buf)
	if status != StatusFailed {
		t.Fatalf("status = %v", status)
	}
}

func TestDecodeForcedFormat(t *testing.T) {
	data := map[string]any{
		"doc": map[string]any{"type": "doc", "content": []any{}},
	}

	if _, err := Decode(data, types.FormatAuto); err != nil {
		t.Errorf("auto-detect: %v", err)
	}
	if _, err := Decode(data, types.FormatCanvas); err != nil {
		t.Errorf("forced canvas: %v", err)
	}
	// Forcing the wrong decoder surfaces its structural failure.
	if _, err := Decode(data, types.FormatLegacy); err == nil {
		t.Error("forced legacy on a canvas note should fail")
	}
}

func TestFrontmatter(t *testing.T) {
	dir := t.TempDir()
	notePath := writeNote(t, dir, "memo.boxnote", legacyNote)
	outBase := filepath.Join(dir, "memo")

	cfg := types.ConvertConfig{Format: types.FormatMarkdown, Frontmatter: true}
	var buf bytes.Buffer
	if status := ConvertNote(notePath, outBase, cfg, &buf); status != StatusConverted {
		t.Fatalf("status = %v, output:\n%s", status, buf.String())
	}

	out, err := os.ReadFile(outBase + ".md")
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "---\n") {
		t.Errorf("missing frontmatter: %q", s)
	}
	if !strings.Contains(s, "format: legacy") {
		t.Errorf("frontmatter lacks format: %q", s)
	}
	if !strings.HasSuffix(s, "**Hello**\n") {
		t.Errorf("body missing after frontmatter: %q", s)
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("one"))
	b := ContentHash([]byte("two"))
	if a == b {
		t.Error("hashes of distinct content collide")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d", len(a))
	}
	if a != ContentHash([]byte("one")) {
		t.Error("hash is not deterministic")
	}
}

func TestFindNotes(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "b.boxnote", "{}")
	writeNote(t, dir, "a.boxnote", "{}")
	writeNote(t, dir, "readme.md", "ignored")

	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeNote(t, sub, "c.boxnote", "{}")

	flat, err := FindNotes(dir, false)
	if err != nil {
		t.Fatalf("FindNotes: %v", err)
	}
	if len(flat) != 2 || filepath.Base(flat[0]) != "a.boxnote" {
		t.Errorf("flat = %v", flat)
	}

	deep, err := FindNotes(dir, true)
	if err != nil {
		t.Fatalf("FindNotes recursive: %v", err)
	}
	if len(deep) != 3 {
		t.Errorf("deep = %v", deep)
	}
}
