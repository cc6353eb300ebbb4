// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/boxmd/pkg/types"
)

// PlainText renders a document as readable text with all markup dropped:
// headings are underlined, tables flatten to tab-separated rows, links
// show their URL in parentheses.
func PlainText(doc *types.Document, res ImageResolver, sourcePath string) string {
	r := &textRenderer{res: res, sourcePath: sourcePath}

	parts := make([]string, 0, len(doc.Blocks))
	for _, blk := range doc.Blocks {
		// Empty blocks collapse: consecutive blank paragraphs render as
		// a single blank line between their neighbors.
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

type textRenderer struct {
	res        ImageResolver
	sourcePath string
	imgIndex   int
}

func (r *textRenderer) block(blk types.Block) string {
	switch blk.Kind {
	case types.KindParagraph:
		return spanText(blk.Spans)

	case types.KindHeading:
		text := spanText(blk.Spans)
		return text + "\n" + strings.Repeat(headingRule(blk.Level), len([]rune(text)))

	case types.KindCodeBlock:
		return indentLines(blk.Text, "    ")

	case types.KindBlockquote:
		var inner []string
		for _, child := range blk.Blocks {
			if s := r.block(child); s != "" {
				inner = append(inner, s)
			}
		}
		return indentLines(quotePrefix(strings.Join(inner, "\n\n")), "    ")

	case types.KindHorizontalRule:
		return strings.Repeat("-", 60)

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

func headingRule(level int) string {
	switch level {
	case 1:
		return "="
	case 2:
		return "-"
	}
	return "~"
}

func (r *textRenderer) list(list types.List, depth int) []string {
	indent := strings.Repeat(listIndent, depth)
	var lines []string

	for i, item := range list.Items {
		prefix := indent + "• "
		switch {
		case item.Checked != nil && *item.Checked:
			prefix = indent + "☑ "
		case item.Checked != nil:
			prefix = indent + "☐ "
		case list.Ordered:
			prefix = fmt.Sprintf("%s%d. ", indent, i+1)
		}

		var content []string
		for _, blk := range item.Blocks {
			if s := r.block(blk); s != "" {
				content = append(content, s)
			}
		}
		lines = append(lines, prefix+strings.Join(content, " "))

		for _, nested := range item.Nested {
			lines = append(lines, r.list(nested, depth+1)...)
		}
	}
	return lines
}

// table flattens rows to tab-separated lines; cell text loses internal
// newlines so each row stays one line.
func (r *textRenderer) table(t types.Table) string {
	rows := append([][]types.Cell{t.Header}, t.Rows...)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		parts := make([]string, len(row))
		for i, c := range row {
			parts[i] = strings.ReplaceAll(spanText(c.Spans), "\n", " ")
		}
		lines = append(lines, strings.Join(parts, "\t"))
	}
	return strings.Join(lines, "\n")
}

func (r *textRenderer) image(img types.Image) string {
	rctx := types.ResolveContext{SourcePath: r.sourcePath, Index: r.imgIndex}
	r.imgIndex++
	loc := resolveRef(r.res, img.Ref, rctx)

	alt := img.Alt
	if alt == "" {
		alt = "image"
	}
	return fmt.Sprintf("[Image: %s] (%s)", alt, loc)
}

// spanText drops styling; links keep their target in parentheses.
func spanText(spans []types.Span) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(sp.Text)
		if sp.Style.Link != "" {
			b.WriteString(" (" + sp.Style.Link + ")")
		}
	}
	return b.String()
}
