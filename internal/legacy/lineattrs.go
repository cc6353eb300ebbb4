// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package legacy

import (
	"strconv"
	"strings"
)

// extractLineAttrs pulls structural attributes out of a decoded line.
// Line-scoped attributes (heading, list, codeblock, quote, table) change
// how the block containing the line is classified, so they are recognized
// here, before the structure builder interprets the runs. A run carrying
// the line-marker attribute is pure bookkeeping — its placeholder
// character is dropped from the text.
func extractLineAttrs(l *Line) {
	kept := make([]Run, 0, len(l.Runs))
	for _, r := range l.Runs {
		for _, a := range r.Attrs {
			applyLineAttr(&l.Attrs, a)
		}
		if r.Attrs.Has("lmkr") {
			continue
		}
		kept = append(kept, r)
	}
	l.Runs = kept
}

func applyLineAttr(la *LineAttrs, a Attr) {
	switch {
	case a.Name == "list":
		kind, level, checked := parseListValue(a.Value)
		if kind != ListNone {
			la.List = kind
			la.Level = level
			la.Checked = checked
		}
	case a.Name == "heading":
		if lvl := headingLevel(a.Value); lvl > 0 {
			la.Heading = lvl
		}
	case len(a.Name) == 2 && a.Name[0] == 'h' && a.Name[1] >= '1' && a.Name[1] <= '9':
		if lvl := headingLevel(a.Name[1:]); lvl > 0 {
			la.Heading = lvl
		}
	case a.Name == "codeblock":
		la.Code = truthy(a.Value)
	case a.Name == "quote" || a.Name == "blockquote":
		la.Quote = truthy(a.Value)
	case a.Name == "table":
		la.Table = true
	}
}

// parseListValue splits values like "bullet2", "number1" or "checked3"
// into a list kind, an indent level (1-based, defaulting to 1), and the
// checked state for check-list kinds.
func parseListValue(v string) (ListKind, int, bool) {
	base := strings.TrimRight(v, "0123456789")
	level := 1
	if digits := v[len(base):]; digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			level = n
		}
	}

	switch base {
	case "bullet":
		return ListBullet, level, false
	case "number", "ordered":
		return ListNumber, level, false
	case "checked":
		return ListCheck, level, true
	case "unchecked", "checklist", "task":
		return ListCheck, level, false
	}
	return ListNone, 0, false
}

// headingLevel maps "h1".."h3", "1".."3" to a level. A parsed level
// outside 1..3 falls back to 1; unparsable values return 0.
func headingLevel(v string) int {
	v = strings.TrimPrefix(strings.ToLower(v), "h")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	if n < 1 || n > 3 {
		return 1
	}
	return n
}

func truthy(v string) bool {
	return v != "" && v != "false"
}
