// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the unified document model shared by the decoders
// and renderers, plus the configuration structs for each stage.
//
// Both the pre-2022 "legacy" decoder and the post-2022 "canvas" tree
// decoder produce a Document; both renderers consume one. The model is
// plain data: decoders build it, renderers traverse it, nothing mutates
// it after decode.
package types

import "strings"

// BlockKind identifies the variant of a Block.
type BlockKind string

const (
	KindParagraph      BlockKind = "paragraph"
	KindHeading        BlockKind = "heading"
	KindCodeBlock      BlockKind = "code_block"
	KindBlockquote     BlockKind = "blockquote"
	KindHorizontalRule BlockKind = "hr"
	KindList           BlockKind = "list"
	KindTable          BlockKind = "table"
	KindImage          BlockKind = "image"
)

// StyleSet is the set of inline style flags active on a span. The zero
// value means unstyled text.
type StyleSet struct {
	Bold   bool
	Italic bool
	Strike bool
	Code   bool
	Link   string // target URL; empty when the span is not a link
}

// IsZero reports whether no style flag is set.
func (s StyleSet) IsZero() bool {
	return s == StyleSet{}
}

// Span is a run of text with one consistent StyleSet.
type Span struct {
	Text  string
	Style StyleSet
}

// MergeSpans coalesces adjacent spans that carry an identical StyleSet and
// drops empty spans. Decoders call it before handing spans to a renderer,
// so no two consecutive spans in a Document ever share a style set.
func MergeSpans(spans []Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, sp := range spans {
		if sp.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == sp.Style {
			out[n-1].Text += sp.Text
			continue
		}
		out = append(out, sp)
	}
	return out
}

// SpanText concatenates the raw text of spans with styling dropped.
func SpanText(spans []Span) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(sp.Text)
	}
	return b.String()
}

// ImageRefKind identifies the variant of an ImageRef.
type ImageRefKind string

const (
	// RefDataURI is an inline base64 payload (data:image/...;base64,...).
	RefDataURI ImageRefKind = "data_uri"
	// RefExternalURL is an http(s) URL.
	RefExternalURL ImageRefKind = "external_url"
	// RefLocalFile is a filename resolved against the note's sidecar
	// "Box Notes Images" directory.
	RefLocalFile ImageRefKind = "local_file"
)

// ImageRef is a tagged reference to image content. Raw always holds the
// original source string so a failed resolution can fall back to it.
type ImageRef struct {
	Kind ImageRefKind
	Raw  string

	// DataURI fields.
	MIME string
	Data []byte

	// ExternalURL field.
	URL string

	// LocalFile field.
	Name string
}

// Image is a block-level image with its reference and caption metadata.
type Image struct {
	Ref   ImageRef
	Alt   string
	Title string
}

// ResolveContext tells an image resolver where a reference came from:
// the note being converted and the ordinal of the image within it.
type ResolveContext struct {
	SourcePath string
	Index      int
}

// ListItem is one entry of a List. Checked is nil for plain items and
// non-nil for check-list items. Nested holds sub-lists introduced by a
// deeper indent.
type ListItem struct {
	Checked *bool
	Blocks  []Block
	Nested  []List
}

// List is an ordered or unordered sequence of items. Lists nest to
// arbitrary depth through ListItem.Nested.
type List struct {
	Ordered bool
	Items   []ListItem
}

// Cell is a single table cell.
type Cell struct {
	Spans []Span
}

// Table is a header row plus body rows.
type Table struct {
	Header []Cell
	Rows   [][]Cell
}

// Block is one block-level element. Kind selects which fields are
// meaningful; the rest stay zero. A union struct keeps traversal a plain
// switch instead of an interface hierarchy.
type Block struct {
	Kind BlockKind

	// Paragraph and Heading content.
	Spans []Span

	// Heading level, 1..3.
	Level int

	// CodeBlock literal text and optional language tag.
	Text     string
	Language string

	// Blockquote children (recursive).
	Blocks []Block

	List  *List
	Table *Table
	Image *Image
}

// Metadata carries note-level fields captured during decode. Fields are
// emitted as YAML frontmatter when enabled; zero values are omitted.
type Metadata struct {
	Format        string   `yaml:"format,omitempty"`
	Revision      int      `yaml:"revision,omitempty"`
	LastEdit      string   `yaml:"last_edit,omitempty"`
	Authors       []string `yaml:"authors,omitempty"`
	SchemaVersion int      `yaml:"schema_version,omitempty"`
}

// Document is the unified in-memory representation of one note.
type Document struct {
	Blocks []Block
	Meta   Metadata
}

// BlockCount returns the number of blocks including nested ones, for
// inspect output.
func (d *Document) BlockCount() int {
	var count func(blocks []Block) int
	count = func(blocks []Block) int {
		n := len(blocks)
		for _, b := range blocks {
			n += count(b.Blocks)
			if b.List != nil {
				n += countList(*b.List, count)
			}
		}
		return n
	}
	return count(d.Blocks)
}

func countList(l List, count func([]Block) int) int {
	n := 0
	for _, it := range l.Items {
		n += count(it.Blocks)
		for _, sub := range it.Nested {
			n += countList(sub, count)
		}
	}
	return n
}
