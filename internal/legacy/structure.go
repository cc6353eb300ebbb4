// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package legacy

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/boxmd/internal/images"
	"github.com/pdiddy/boxmd/pkg/types"
)

// ErrStructure is returned when decoded lines cannot be grouped into a
// well-formed block sequence.
var ErrStructure = errors.New("invalid document structure")

// Options tunes structure building.
type Options struct {
	// HeadingWins flips the tie-break for lines that carry both heading
	// and list attributes. The default (false) classifies such lines as
	// list items, matching the product's own precedence for numbered
	// headings inside lists.
	HeadingWins bool
}

// Parse decodes a legacy note object into the unified document model.
func Parse(data map[string]any, opts Options) (*types.Document, error) {
	atext, ok := data["atext"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing atext object", ErrStructure)
	}
	text, _ := atext["text"].(string)
	attribs, _ := atext["attribs"].(string)

	pool, err := DecodePool(poolMapping(data))
	if err != nil {
		return nil, err
	}

	lines, err := DecodeAttribs(attribs, text, pool)
	if err != nil {
		return nil, err
	}

	blocks, err := buildBlocks(lines, opts)
	if err != nil {
		return nil, err
	}

	return &types.Document{Blocks: blocks, Meta: legacyMeta(data)}, nil
}

// poolMapping digs the numToAttrib table out of the note object. Some
// exports nest it under pool, others store the mapping directly.
func poolMapping(data map[string]any) map[string]any {
	raw, _ := data["pool"].(map[string]any)
	if raw == nil {
		return map[string]any{}
	}
	if nested, ok := raw["numToAttrib"].(map[string]any); ok {
		return nested
	}
	return raw
}

func legacyMeta(data map[string]any) types.Metadata {
	meta := types.Metadata{Format: string(types.FormatLegacy)}
	if head, ok := data["head"].(float64); ok {
		meta.Revision = int(head)
	}
	if ts, ok := data["lastEditTimestamp"].(float64); ok {
		meta.LastEdit = time.UnixMilli(int64(ts)).UTC().Format(time.RFC3339)
	}
	if authors, ok := data["authorList"].([]any); ok {
		for _, a := range authors {
			if name, ok := a.(string); ok {
				meta.Authors = append(meta.Authors, name)
			}
		}
	}
	return meta
}

// builder accumulates blocks while scanning decoded lines. At most one of
// the open* fields is active at a time; openList tracks the stack of
// lists from root to the current indent depth.
type builder struct {
	opts   Options
	blocks []types.Block

	openPara  []types.Span
	openCode  []string
	openQuote []types.Block
	openTable *types.Table
	openList  []*types.List
}

func buildBlocks(lines []Line, opts Options) ([]types.Block, error) {
	b := &builder{opts: opts}
	for i, line := range lines {
		if err := b.addLine(i, line); err != nil {
			return nil, err
		}
	}
	b.flush()
	return b.blocks, nil
}

func (b *builder) addLine(idx int, line Line) error {
	img, err := imageOnLine(idx, line)
	if err != nil {
		return err
	}
	if img != nil {
		b.flush()
		b.blocks = append(b.blocks, types.Block{Kind: types.KindImage, Image: img})
		return nil
	}

	la := line.Attrs
	isList := la.List != ListNone
	if isList && la.Heading > 0 && b.opts.HeadingWins {
		isList = false
	}

	switch {
	case isList:
		return b.addListLine(idx, line)
	case la.Code:
		b.addCodeLine(line)
		return nil
	case la.Table:
		b.addTableLine(line)
		return nil
	case la.Quote:
		b.addQuoteLine(line)
		return nil
	case la.Heading > 0:
		b.flush()
		b.blocks = append(b.blocks, types.Block{
			Kind:  types.KindHeading,
			Level: la.Heading,
			Spans: lineSpans(line),
		})
		return nil
	default:
		b.addParagraphLine(line)
		return nil
	}
}

func (b *builder) addListLine(idx int, line Line) error {
	la := line.Attrs
	if la.Level < 1 {
		return fmt.Errorf("%w: line %d: list indent below root", ErrStructure, idx)
	}

	b.flushExceptList()
	ordered := la.List == ListNumber

	// A kind change at the root starts a fresh list block.
	if len(b.openList) > 0 && b.openList[0].Ordered != ordered && la.Level == 1 {
		b.flushList()
	}

	if len(b.openList) == 0 {
		root := &types.List{Ordered: ordered}
		b.blocks = append(b.blocks, types.Block{Kind: types.KindList, List: root})
		b.openList = append(b.openList, root)
	}

	// Indent increase pushes nested lists; decrease pops back.
	for len(b.openList) < la.Level {
		parent := b.openList[len(b.openList)-1]
		if len(parent.Items) == 0 {
			parent.Items = append(parent.Items, types.ListItem{})
		}
		item := &parent.Items[len(parent.Items)-1]
		item.Nested = append(item.Nested, types.List{Ordered: ordered})
		b.openList = append(b.openList, &item.Nested[len(item.Nested)-1])
	}
	b.openList = b.openList[:la.Level]

	// A kind change below the root closes the open sub-list and starts a
	// sibling of the new kind under the same parent item.
	if la.Level > 1 && b.openList[la.Level-1].Ordered != ordered {
		parent := b.openList[la.Level-2]
		item := &parent.Items[len(parent.Items)-1]
		item.Nested = append(item.Nested, types.List{Ordered: ordered})
		b.openList[la.Level-1] = &item.Nested[len(item.Nested)-1]
	}

	item := types.ListItem{
		Blocks: []types.Block{{Kind: types.KindParagraph, Spans: lineSpans(line)}},
	}
	if la.List == ListCheck {
		checked := la.Checked
		item.Checked = &checked
	}
	target := b.openList[len(b.openList)-1]
	target.Items = append(target.Items, item)
	return nil
}

func (b *builder) addCodeLine(line Line) {
	b.flushPara()
	b.flushQuote()
	b.flushTable()
	b.flushList()
	b.openCode = append(b.openCode, rawText(line))
}

func (b *builder) addQuoteLine(line Line) {
	b.flushPara()
	b.flushCode()
	b.flushTable()
	b.flushList()
	b.openQuote = append(b.openQuote, types.Block{
		Kind:  types.KindParagraph,
		Spans: lineSpans(line),
	})
}

func (b *builder) addTableLine(line Line) {
	if b.openTable == nil {
		b.flush()
		b.openTable = &types.Table{}
	}
	cells := splitCells(line)
	if b.openTable.Header == nil {
		b.openTable.Header = cells
	} else {
		b.openTable.Rows = append(b.openTable.Rows, cells)
	}
}

func (b *builder) addParagraphLine(line Line) {
	if rawText(line) == "" {
		// Blank line: paragraph separator.
		b.flush()
		return
	}
	spans := lineSpans(line)
	if b.openPara == nil {
		b.flushExceptPara()
		b.openPara = spans
		return
	}
	b.openPara = append(b.openPara, types.Span{Text: "\n"})
	b.openPara = append(b.openPara, spans...)
}

// flush closes every open block.
func (b *builder) flush() {
	b.flushPara()
	b.flushCode()
	b.flushQuote()
	b.flushTable()
	b.flushList()
}

func (b *builder) flushExceptPara() {
	b.flushCode()
	b.flushQuote()
	b.flushTable()
	b.flushList()
}

func (b *builder) flushExceptList() {
	b.flushPara()
	b.flushCode()
	b.flushQuote()
	b.flushTable()
}

func (b *builder) flushPara() {
	if b.openPara != nil {
		b.blocks = append(b.blocks, types.Block{
			Kind:  types.KindParagraph,
			Spans: types.MergeSpans(b.openPara),
		})
		b.openPara = nil
	}
}

func (b *builder) flushCode() {
	if b.openCode != nil {
		b.blocks = append(b.blocks, types.Block{
			Kind: types.KindCodeBlock,
			Text: strings.Join(b.openCode, "\n"),
		})
		b.openCode = nil
	}
}

func (b *builder) flushQuote() {
	if b.openQuote != nil {
		b.blocks = append(b.blocks, types.Block{
			Kind:   types.KindBlockquote,
			Blocks: b.openQuote,
		})
		b.openQuote = nil
	}
}

func (b *builder) flushTable() {
	if b.openTable != nil {
		b.blocks = append(b.blocks, types.Block{Kind: types.KindTable, Table: b.openTable})
		b.openTable = nil
	}
}

func (b *builder) flushList() {
	b.openList = nil
}

// imageOnLine returns the image block for a line consisting solely of an
// image marker. A marker sharing a line with text, or buried inside a
// multi-character run, is a structure error: legacy images are always
// block-level.
func imageOnLine(idx int, line Line) (*types.Image, error) {
	var img *types.Image
	for _, r := range line.Runs {
		src, ok := r.Attrs.Get("image")
		if !ok {
			continue
		}
		if utf8.RuneCountInString(r.Text) > 1 {
			return nil, fmt.Errorf("%w: line %d: image marker inside a text run", ErrStructure, idx)
		}
		if img != nil {
			return nil, fmt.Errorf("%w: line %d: multiple image markers on one line", ErrStructure, idx)
		}
		img = &types.Image{Ref: images.ParseRef(src)}
	}
	if img == nil {
		return nil, nil
	}
	for _, r := range line.Runs {
		if !r.Attrs.Has("image") && r.Text != "" {
			return nil, fmt.Errorf("%w: line %d: image marker mixed with text", ErrStructure, idx)
		}
	}
	return img, nil
}

// splitCells breaks a table row's runs into cells at literal tabs,
// preserving the styling of each fragment.
func splitCells(line Line) []types.Cell {
	cells := []types.Cell{{}}
	for _, r := range line.Runs {
		parts := strings.Split(r.Text, "\t")
		for i, part := range parts {
			if i > 0 {
				cells = append(cells, types.Cell{})
			}
			if part == "" {
				continue
			}
			cur := &cells[len(cells)-1]
			cur.Spans = append(cur.Spans, types.Span{Text: part, Style: runStyle(r.Attrs)})
		}
	}
	for i := range cells {
		cells[i].Spans = types.MergeSpans(cells[i].Spans)
	}
	return cells
}

// lineSpans converts a line's runs to merged styled spans.
func lineSpans(line Line) []types.Span {
	spans := make([]types.Span, 0, len(line.Runs))
	for _, r := range line.Runs {
		if r.Text == "" {
			continue
		}
		spans = append(spans, types.Span{Text: r.Text, Style: runStyle(r.Attrs)})
	}
	return types.MergeSpans(spans)
}

func rawText(line Line) string {
	var sb strings.Builder
	for _, r := range line.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// runStyle maps inline attributes to style flags. Underline, fonts and
// colors decode but have no representation in the targets and are
// dropped here.
func runStyle(attrs AttrSet) types.StyleSet {
	var s types.StyleSet
	for _, a := range attrs {
		switch a.Name {
		case "bold", "b":
			s.Bold = truthy(a.Value)
		case "italic", "i":
			s.Italic = truthy(a.Value)
		case "strikethrough", "strike":
			s.Strike = truthy(a.Value)
		case "code":
			s.Code = truthy(a.Value)
		case "link", "url":
			s.Link = a.Value
		}
	}
	return s
}
