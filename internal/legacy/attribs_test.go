// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package legacy

import (
	"errors"
	"testing"
)

func boldPool() Pool {
	return Pool{0: {Name: "bold", Value: "true"}}
}

func TestDecodeAttribsSingleStyledRun(t *testing.T) {
	// A trailing zero-length run after the break is legal and inert.
	lines, err := DecodeAttribs("*0+5|1+0", "Hello", boldPool())
	if err != nil {
		t.Fatalf("DecodeAttribs: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	runs := lines[0].Runs
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Text != "Hello" {
		t.Errorf("run text = %q", runs[0].Text)
	}
	if v, ok := runs[0].Attrs.Get("bold"); !ok || v != "true" {
		t.Errorf("run attrs = %+v", runs[0].Attrs)
	}
}

func TestDecodeAttribsSetResetsPerRun(t *testing.T) {
	// Only the first run carries bold; the set clears after each +.
	lines, err := DecodeAttribs("*0+2+3|1", "abcde", boldPool())
	if err != nil {
		t.Fatalf("DecodeAttribs: %v", err)
	}
	runs := lines[0].Runs
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].Attrs.Has("bold") {
		t.Error("first run should be bold")
	}
	if runs[1].Attrs.Has("bold") {
		t.Error("second run should be plain")
	}
	if runs[0].Text != "ab" || runs[1].Text != "cde" {
		t.Errorf("run texts = %q, %q", runs[0].Text, runs[1].Text)
	}
}

func TestDecodeAttribsMultipleBreaks(t *testing.T) {
	// |2 closes the current line and contributes one empty line.
	lines, err := DecodeAttribs("+1|2", "a\n\nb", Pool{})
	if err != nil {
		t.Fatalf("DecodeAttribs: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if len(lines[1].Runs) != 0 {
		t.Errorf("middle line should be empty, got %+v", lines[1].Runs)
	}
	// The trailing line was never reached by an operator: it decodes as
	// one unstyled run.
	if len(lines[2].Runs) != 1 || lines[2].Runs[0].Text != "b" {
		t.Errorf("trailing line = %+v", lines[2].Runs)
	}
}

func TestDecodeAttribsNoOperators(t *testing.T) {
	lines, err := DecodeAttribs("", "plain text", Pool{})
	if err != nil {
		t.Fatalf("DecodeAttribs: %v", err)
	}
	if len(lines) != 1 || len(lines[0].Runs) != 1 {
		t.Fatalf("lines = %+v", lines)
	}
	r := lines[0].Runs[0]
	if r.Text != "plain text" || len(r.Attrs) != 0 {
		t.Errorf("run = %+v", r)
	}
}

func TestDecodeAttribsMultibyteText(t *testing.T) {
	// Run lengths count characters, not bytes.
	lines, err := DecodeAttribs("*0+5|1", "héllo", boldPool())
	if err != nil {
		t.Fatalf("DecodeAttribs: %v", err)
	}
	runs := lines[0].Runs
	if len(runs) != 1 || runs[0].Text != "héllo" {
		t.Fatalf("runs = %+v", runs)
	}
	if !runs[0].Attrs.Has("bold") {
		t.Error("run should be bold")
	}
}

func TestDecodeAttribsMultibyteRunBoundaries(t *testing.T) {
	lines, err := DecodeAttribs("+1+2|1", "日本語", Pool{})
	if err != nil {
		t.Fatalf("DecodeAttribs: %v", err)
	}
	runs := lines[0].Runs
	if len(runs) != 2 || runs[0].Text != "日" || runs[1].Text != "本語" {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestDecodeAttribsBase36Lengths(t *testing.T) {
	// "a" is 10 in base36.
	lines, err := DecodeAttribs("+a|1", "0123456789", Pool{})
	if err != nil {
		t.Fatalf("DecodeAttribs: %v", err)
	}
	if got := lines[0].Runs[0].Text; got != "0123456789" {
		t.Errorf("run text = %q", got)
	}
}

func TestDecodeAttribsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		attribs string
		text    string
	}{
		{"run overruns line", "+9|1", "ab"},
		{"partial coverage", "+1|1", "ab"},
		{"empty length literal", "+|1", "ab"},
		{"missing pool index", "*5+2|1", "ab"},
		{"empty attr literal", "*+2|1", "ab"},
		{"zero break count", "+2|0", "ab"},
		{"trailing garbage text", "+2|1+3", "ab\nabcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAttribs(tt.attribs, tt.text, boldPool())
			if !errors.Is(err, ErrMalformedAttribs) {
				t.Fatalf("expected ErrMalformedAttribs, got %v", err)
			}
		})
	}
}

func TestDecodeAttribsTrailingBreak(t *testing.T) {
	// A trailing | may point one past the last line without failing.
	lines, err := DecodeAttribs("+2|1", "ab", Pool{})
	if err != nil {
		t.Fatalf("DecodeAttribs: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}
