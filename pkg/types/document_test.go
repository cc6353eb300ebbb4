// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"reflect"
	"testing"
)

func TestMergeSpans(t *testing.T) {
	bold := StyleSet{Bold: true}

	tests := []struct {
		name string
		in   []Span
		want []Span
	}{
		{
			name: "adjacent identical styles merge",
			in: []Span{
				{Text: "Hel", Style: bold},
				{Text: "lo", Style: bold},
			},
			want: []Span{{Text: "Hello", Style: bold}},
		},
		{
			name: "different styles stay separate",
			in: []Span{
				{Text: "a", Style: bold},
				{Text: "b"},
			},
			want: []Span{
				{Text: "a", Style: bold},
				{Text: "b"},
			},
		},
		{
			name: "empty spans dropped",
			in: []Span{
				{Text: "a"},
				{Text: "", Style: bold},
				{Text: "b"},
			},
			want: []Span{{Text: "ab"}},
		},
		{
			name: "links distinguish spans",
			in: []Span{
				{Text: "a", Style: StyleSet{Link: "https://x.test/1"}},
				{Text: "b", Style: StyleSet{Link: "https://x.test/2"}},
			},
			want: []Span{
				{Text: "a", Style: StyleSet{Link: "https://x.test/1"}},
				{Text: "b", Style: StyleSet{Link: "https://x.test/2"}},
			},
		},
		{
			name: "nil input",
			in:   nil,
			want: []Span{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeSpans(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeSpans() = %#v, want %#v", got, tt.want)
			}
			// Merge invariant: no two consecutive spans share a style set.
			for i := 1; i < len(got); i++ {
				if got[i].Style == got[i-1].Style {
					t.Errorf("spans %d and %d share style %+v", i-1, i, got[i].Style)
				}
			}
		})
	}
}

func TestSpanText(t *testing.T) {
	spans := []Span{
		{Text: "Hello "},
		{Text: "world", Style: StyleSet{Bold: true}},
	}
	if got := SpanText(spans); got != "Hello world" {
		t.Errorf("SpanText() = %q, want %q", got, "Hello world")
	}
}

func TestBlockCount(t *testing.T) {
	doc := Document{
		Blocks: []Block{
			{Kind: KindHeading, Level: 1, Spans: []Span{{Text: "T"}}},
			{Kind: KindBlockquote, Blocks: []Block{
				{Kind: KindParagraph, Spans: []Span{{Text: "quoted"}}},
			}},
			{Kind: KindList, List: &List{Items: []ListItem{
				{Blocks: []Block{{Kind: KindParagraph}}},
				{
					Blocks: []Block{{Kind: KindParagraph}},
					Nested: []List{{Items: []ListItem{
						{Blocks: []Block{{Kind: KindParagraph}}},
					}}},
				},
			}}},
		},
	}
	// 3 top-level + 1 quoted + 3 item paragraphs.
	if got := doc.BlockCount(); got != 7 {
		t.Errorf("BlockCount() = %d, want 7", got)
	}
}
