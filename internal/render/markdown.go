// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/boxmd/pkg/types"
)

// listIndent is the fixed indent width per list nesting level.
const listIndent = "  "

// mdEscaper escapes Markdown-significant characters in plain text spans.
// Code and link-text contexts skip it.
var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`(`, `\(`,
	`)`, `\)`,
	`#`, `\#`,
)

// Markdown renders a document as GitHub Flavored Markdown. Image
// references resolve through res; sourcePath locates sidecar images and
// is carried into the resolve context.
func Markdown(doc *types.Document, res ImageResolver, sourcePath string) string {
	r := &mdRenderer{res: res, sourcePath: sourcePath}

	parts := make([]string, 0, len(doc.Blocks))
	for _, blk := range doc.Blocks {
		if s := r.block(blk); s != "" {
			parts = append(parts, s)
		}
	}
	out := strings.Join(parts, "\n\n")
	if out != "" {
		out += "\n"
	}
	return out
}

type mdRenderer struct {
	res        ImageResolver
	sourcePath string
	imgIndex   int
}

func (r *mdRenderer) block(blk types.Block) string {
	switch blk.Kind {
	case types.KindParagraph:
		return r.spans(blk.Spans)

	case types.KindHeading:
		return strings.Repeat("#", blk.Level) + " " + r.spans(blk.Spans)

	case types.KindCodeBlock:
		return codeFence(blk.Text, blk.Language)

	case types.KindBlockquote:
		var inner []string
		for _, child := range blk.Blocks {
			if s := r.block(child); s != "" {
				inner = append(inner, s)
			}
		}
		return quotePrefix(strings.Join(inner, "\n\n"))

	case types.KindHorizontalRule:
		return "---"

	case types.KindList:
		if blk.List == nil {
			return ""
		}
		return strings.Join(r.list(*blk.List, 0), "\n")

	case types.KindTable:
		if blk.Table == nil {
			return ""
		}
		return r.table(*blk.Table)

	case types.KindImage:
		if blk.Image == nil {
			return ""
		}
		return r.image(*blk.Image)
	}
	return ""
}

func (r *mdRenderer) list(list types.List, depth int) []string {
	indent := strings.Repeat(listIndent, depth)
	var lines []string

	for i, item := range list.Items {
		prefix := indent + "- "
		switch {
		case item.Checked != nil && *item.Checked:
			prefix = indent + "- [x] "
		case item.Checked != nil:
			prefix = indent + "- [ ] "
		case list.Ordered:
			prefix = fmt.Sprintf("%s%d. ", indent, i+1)
		}

		first := true
		for _, blk := range item.Blocks {
			s := r.block(blk)
			if s == "" {
				continue
			}
			if first {
				lines = append(lines, prefix+s)
				first = false
				continue
			}
			// Continuation blocks sit under the item marker.
			lines = append(lines, indentLines(s, indent+listIndent))
		}
		if first {
			lines = append(lines, strings.TrimRight(prefix, " ")+" ")
		}

		for _, nested := range item.Nested {
			lines = append(lines, r.list(nested, depth+1)...)
		}
	}
	return lines
}

func (r *mdRenderer) table(t types.Table) string {
	var lines []string
	lines = append(lines, r.tableRow(t.Header))
	sep := make([]string, len(t.Header))
	for i := range sep {
		sep[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(sep, " | ")+" |")
	for _, row := range t.Rows {
		lines = append(lines, r.tableRow(row))
	}
	return strings.Join(lines, "\n")
}

func (r *mdRenderer) tableRow(cells []types.Cell) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = strings.ReplaceAll(r.spans(c.Spans), "|", `\|`)
	}
	return "| " + strings.Join(parts, " | ") + " |"
}

func (r *mdRenderer) image(img types.Image) string {
	rctx := types.ResolveContext{SourcePath: r.sourcePath, Index: r.imgIndex}
	r.imgIndex++
	loc := resolveRef(r.res, img.Ref, rctx)

	alt := img.Alt
	if img.Title != "" {
		return fmt.Sprintf("![%s](%s %q)", alt, loc, img.Title)
	}
	return fmt.Sprintf("![%s](%s)", alt, loc)
}

func (r *mdRenderer) spans(spans []types.Span) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(renderSpan(sp))
	}
	return b.String()
}

// renderSpan composes overlapping style flags in a fixed nesting order —
// link innermost, then code, bold, italic, strike outermost — so the
// output always parses.
func renderSpan(sp types.Span) string {
	s := sp.Style
	out := sp.Text
	if !s.Code && s.Link == "" {
		out = mdEscaper.Replace(out)
	}

	if s.Link != "" {
		out = "[" + strings.ReplaceAll(out, "]", `\]`) + "](" + s.Link + ")"
	}
	if s.Code {
		out = "`" + out + "`"
	}
	if s.Bold {
		out = "**" + out + "**"
	}
	if s.Italic {
		out = "*" + out + "*"
	}
	if s.Strike {
		out = "~~" + out + "~~"
	}
	return out
}

// codeFence picks a backtick fence longer than any run inside the code.
func codeFence(text, language string) string {
	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	return fence + language + "\n" + text + "\n" + fence
}

func quotePrefix(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}

func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
