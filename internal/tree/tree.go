// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tree decodes the post-2022 note encoding: a typed, nested node
// tree that maps one-to-one onto the unified document model.
package tree

import (
	"errors"
	"fmt"

	"github.com/pdiddy/boxmd/internal/images"
	"github.com/pdiddy/boxmd/pkg/types"
)

// ErrMalformedNode is returned when a node is missing a field its
// declared type requires.
var ErrMalformedNode = errors.New("malformed node")

// Parse decodes a canvas note object into the unified document model.
// The document node is either under the top-level "doc" key or is the
// object itself.
func Parse(data map[string]any) (*types.Document, error) {
	doc, ok := data["doc"].(map[string]any)
	if !ok {
		doc = data
	}
	if doc["type"] != "doc" {
		return nil, fmt.Errorf("%w: root type is %v, want doc", ErrMalformedNode, doc["type"])
	}

	d := &decoder{}
	blocks, err := d.blocks(content(doc))
	if err != nil {
		return nil, err
	}
	return &types.Document{Blocks: blocks, Meta: canvasMeta(data)}, nil
}

func canvasMeta(data map[string]any) types.Metadata {
	meta := types.Metadata{Format: string(types.FormatCanvas)}
	if v, ok := data["version"].(float64); ok {
		meta.Revision = int(v)
	}
	if v, ok := data["schema_version"].(float64); ok {
		meta.SchemaVersion = int(v)
	}
	if v, ok := data["last_edit_timestamp"].(string); ok {
		meta.LastEdit = v
	}
	return meta
}

// decoder tracks the ordinal of the node being visited so malformed-node
// errors can name a position.
type decoder struct {
	pos int
}

func content(node map[string]any) []any {
	c, _ := node["content"].([]any)
	return c
}

func attrs(node map[string]any) map[string]any {
	a, _ := node["attrs"].(map[string]any)
	return a
}

// blocks decodes a content array into block-level elements. Unknown node
// types are never fatal: their own content is recursed into so recognized
// descendants still appear in the output.
func (d *decoder) blocks(nodes []any) ([]types.Block, error) {
	var out []types.Block
	for _, raw := range nodes {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		d.pos++

		block, err := d.block(node)
		if err != nil {
			return nil, err
		}
		if block != nil {
			out = append(out, *block)
			continue
		}

		// Not a block node. Inline nodes at block level get wrapped;
		// anything unrecognized is skipped with its content kept.
		if spans, handled := d.inline(node); handled {
			if merged := types.MergeSpans(spans); len(merged) > 0 {
				out = append(out, types.Block{Kind: types.KindParagraph, Spans: merged})
			}
			continue
		}
		nested, err := d.blocks(content(node))
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}

// block decodes one block-level node, or returns nil when the type is not
// a known block type. Exports use both camelCase and snake_case type
// spellings; both are accepted throughout.
func (d *decoder) block(node map[string]any) (*types.Block, error) {
	switch node["type"] {
	case "paragraph":
		spans, err := d.inlines(content(node))
		if err != nil {
			return nil, err
		}
		return &types.Block{Kind: types.KindParagraph, Spans: spans}, nil

	case "heading":
		lvl, ok := attrs(node)["level"].(float64)
		if !ok {
			return nil, fmt.Errorf("%w: heading (node %d) missing attrs.level", ErrMalformedNode, d.pos)
		}
		level := int(lvl)
		if level < 1 || level > 3 {
			level = 1
		}
		spans, err := d.inlines(content(node))
		if err != nil {
			return nil, err
		}
		return &types.Block{Kind: types.KindHeading, Level: level, Spans: spans}, nil

	case "codeBlock", "code_block":
		spans, err := d.inlines(content(node))
		if err != nil {
			return nil, err
		}
		lang, _ := attrs(node)["language"].(string)
		return &types.Block{Kind: types.KindCodeBlock, Text: types.SpanText(spans), Language: lang}, nil

	case "blockquote":
		inner, err := d.blocks(content(node))
		if err != nil {
			return nil, err
		}
		return &types.Block{Kind: types.KindBlockquote, Blocks: inner}, nil

	case "horizontalRule", "horizontal_rule":
		return &types.Block{Kind: types.KindHorizontalRule}, nil

	case "bulletList", "bullet_list":
		return d.list(node, false, false)
	case "orderedList", "ordered_list":
		return d.list(node, true, false)
	case "checkList", "check_list":
		return d.list(node, false, true)

	case "table":
		return d.table(node)

	case "image":
		src, ok := attrs(node)["src"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: image (node %d) missing attrs.src", ErrMalformedNode, d.pos)
		}
		alt, _ := attrs(node)["alt"].(string)
		title, _ := attrs(node)["title"].(string)
		return &types.Block{Kind: types.KindImage, Image: &types.Image{
			Ref:   images.ParseRef(src),
			Alt:   alt,
			Title: title,
		}}, nil
	}
	return nil, nil
}

func (d *decoder) list(node map[string]any, ordered, check bool) (*types.Block, error) {
	list := &types.List{Ordered: ordered}
	for _, raw := range content(node) {
		child, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		d.pos++
		switch child["type"] {
		case "listItem", "list_item", "checkListItem", "check_list_item":
			checkItem := child["type"] == "checkListItem" || child["type"] == "check_list_item"
			item, err := d.listItem(child, check || checkItem)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
	}
	return &types.Block{Kind: types.KindList, List: list}, nil
}

// listItem splits an item's content into its own blocks and any nested
// sub-lists introduced below it.
func (d *decoder) listItem(node map[string]any, check bool) (types.ListItem, error) {
	var item types.ListItem
	if check {
		checked, _ := attrs(node)["checked"].(bool)
		item.Checked = &checked
	}

	inner, err := d.blocks(content(node))
	if err != nil {
		return item, err
	}
	for _, blk := range inner {
		if blk.Kind == types.KindList && blk.List != nil {
			item.Nested = append(item.Nested, *blk.List)
			continue
		}
		item.Blocks = append(item.Blocks, blk)
	}
	return item, nil
}

func (d *decoder) table(node map[string]any) (*types.Block, error) {
	table := &types.Table{}
	for _, raw := range content(node) {
		row, ok := raw.(map[string]any)
		if !ok || (row["type"] != "tableRow" && row["type"] != "table_row") {
			continue
		}
		d.pos++

		var cells []types.Cell
		for _, rawCell := range content(row) {
			cellNode, ok := rawCell.(map[string]any)
			if !ok {
				continue
			}
			switch cellNode["type"] {
			case "tableCell", "table_cell", "tableHeader", "table_header":
				d.pos++
				inner, err := d.blocks(content(cellNode))
				if err != nil {
					return nil, err
				}
				cells = append(cells, types.Cell{Spans: cellSpans(inner)})
			}
		}

		if table.Header == nil {
			table.Header = cells
		} else {
			table.Rows = append(table.Rows, cells)
		}
	}
	return &types.Block{Kind: types.KindTable, Table: table}, nil
}

// cellSpans flattens a cell's blocks into one span sequence; cell
// paragraphs beyond the first are separated by a space.
func cellSpans(blocks []types.Block) []types.Span {
	var spans []types.Span
	for i, blk := range blocks {
		if i > 0 {
			spans = append(spans, types.Span{Text: " "})
		}
		spans = append(spans, blk.Spans...)
	}
	return types.MergeSpans(spans)
}

// inlines decodes a content array of inline nodes into merged spans.
func (d *decoder) inlines(nodes []any) ([]types.Span, error) {
	var spans []types.Span
	for _, raw := range nodes {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		d.pos++
		if got, handled := d.inline(node); handled {
			spans = append(spans, got...)
			continue
		}
		// Unknown inline types keep their recognized descendants.
		nested, err := d.inlines(content(node))
		if err != nil {
			return nil, err
		}
		spans = append(spans, nested...)
	}
	return types.MergeSpans(spans), nil
}

// inline decodes a single inline node. handled is false for unknown
// types so the caller can recurse into their content.
func (d *decoder) inline(node map[string]any) ([]types.Span, bool) {
	switch node["type"] {
	case "text":
		text, _ := node["text"].(string)
		if text == "" {
			return nil, true
		}
		return []types.Span{{Text: text, Style: markStyle(node["marks"])}}, true
	case "hardBreak", "hard_break":
		return []types.Span{{Text: "\n"}}, true
	}
	return nil, false
}

// markStyle folds a marks array into style flags. Marks the targets
// cannot express (underline, colors, sizes) are dropped.
func markStyle(raw any) types.StyleSet {
	var s types.StyleSet
	marks, _ := raw.([]any)
	for _, m := range marks {
		mark, ok := m.(map[string]any)
		if !ok {
			continue
		}
		switch mark["type"] {
		case "bold", "strong":
			s.Bold = true
		case "italic", "em":
			s.Italic = true
		case "strikethrough", "strike":
			s.Strike = true
		case "code":
			s.Code = true
		case "link":
			if a, ok := mark["attrs"].(map[string]any); ok {
				if href, ok := a["href"].(string); ok {
					s.Link = href
				}
			}
		}
	}
	return s
}
