// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package legacy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedAttribs is returned when the operator stream cannot be
// replayed against the document text: a run overruns its line, a base36
// literal is unparsable, or an operator references a missing pool index.
var ErrMalformedAttribs = errors.New("malformed attribute string")

// Run is a stretch of line text tagged with the attribute set that was
// active when it was consumed.
type Run struct {
	Text  string
	Attrs AttrSet
}

// Line is the decoded form of one text line: its styled runs plus the
// structural attributes that classify the block containing it.
type Line struct {
	Runs  []Run
	Attrs LineAttrs
}

// ListKind classifies a line's list membership.
type ListKind string

const (
	ListNone   ListKind = ""
	ListBullet ListKind = "bullet"
	ListNumber ListKind = "number"
	ListCheck  ListKind = "check"
)

// LineAttrs are the line-level attributes recognized during decode. They
// drive block classification and never contribute inline styling.
type LineAttrs struct {
	Heading int // 1..3, 0 when absent
	List    ListKind
	Level   int // list indent depth, 1-based
	Checked bool
	Code    bool
	Quote   bool
	Table   bool
}

// DecodeAttribs replays the operator stream against the document text and
// returns one Line per text line.
//
// The stream is a sequence of operators: *K adds pool attribute K
// (base36) to the working set; +N (base36) consumes N characters of the
// current line as one run tagged with a snapshot of the set, then clears
// the set; |L (base36) terminates the current line, contributing L-1
// empty lines when L > 1. Text not covered by any operator is legal only
// on lines with no operators at all, which decode to a single unstyled
// run. Any other coverage mismatch is a decode failure, never a silent
// truncation.
func DecodeAttribs(attribs, text string, pool Pool) ([]Line, error) {
	sc := scanner{pool: pool}
	for _, l := range strings.Split(text, "\n") {
		sc.lines = append(sc.lines, []rune(l))
	}

	i := 0
	for i < len(attribs) {
		op := attribs[i]
		i++

		start := i
		for i < len(attribs) && attribs[i] != '*' && attribs[i] != '+' && attribs[i] != '|' {
			i++
		}
		literal := attribs[start:i]

		switch op {
		case '*':
			if err := sc.applyAttr(literal); err != nil {
				return nil, err
			}
		case '+':
			if err := sc.consume(literal); err != nil {
				return nil, err
			}
		case '|':
			if err := sc.lineBreak(literal); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unexpected operator %q at offset %d", ErrMalformedAttribs, op, i-1)
		}
	}

	if err := sc.finish(); err != nil {
		return nil, err
	}
	return sc.out, nil
}

// scanner carries the replay state: the current working attribute set,
// the line index, and the read cursor within that line. Lines are held
// as rune slices because run lengths count characters, not bytes.
type scanner struct {
	lines [][]rune
	pool  Pool
	out   []Line

	li      int
	cursor  int
	working AttrSet
	runs    []Run
	hadOps  bool
}

func (sc *scanner) curLine() []rune {
	if sc.li < len(sc.lines) {
		return sc.lines[sc.li]
	}
	return nil
}

func (sc *scanner) applyAttr(literal string) error {
	idx, err := base36(literal)
	if err != nil {
		return fmt.Errorf("%w: attribute index %q: %v", ErrMalformedAttribs, literal, err)
	}
	attr, ok := sc.pool[int(idx)]
	if !ok {
		return fmt.Errorf("%w: attribute index %d not in pool", ErrMalformedAttribs, idx)
	}
	sc.working = append(sc.working, attr)
	return nil
}

func (sc *scanner) consume(literal string) error {
	n, err := base36(literal)
	if err != nil {
		return fmt.Errorf("%w: run length %q: %v", ErrMalformedAttribs, literal, err)
	}

	line := sc.curLine()
	if sc.cursor+int(n) > len(line) {
		return fmt.Errorf("%w: line %d: run of %d characters overruns remaining text (%d left)",
			ErrMalformedAttribs, sc.li, n, len(line)-sc.cursor)
	}

	if n > 0 {
		snapshot := make(AttrSet, len(sc.working))
		copy(snapshot, sc.working)
		sc.runs = append(sc.runs, Run{Text: string(line[sc.cursor : sc.cursor+int(n)]), Attrs: snapshot})
		sc.cursor += int(n)
	}

	// A fresh * block is required per run; sets do not carry across +.
	sc.working = nil
	sc.hadOps = true
	return nil
}

func (sc *scanner) lineBreak(literal string) error {
	breaks, err := base36(literal)
	if err != nil {
		return fmt.Errorf("%w: line break count %q: %v", ErrMalformedAttribs, literal, err)
	}
	if breaks < 1 {
		return fmt.Errorf("%w: line break count must be positive, got %d", ErrMalformedAttribs, breaks)
	}

	if err := sc.closeLine(); err != nil {
		return err
	}
	// L breaks end the current line and insert L-1 empty lines.
	for k := int64(1); k < breaks; k++ {
		sc.li++
		if err := sc.closeLine(); err != nil {
			return err
		}
	}
	sc.li++
	return nil
}

// closeLine checks the coverage invariant for the current line, emits its
// decoded form, and resets per-line state. Lines past the end of the text
// are silently dropped (a trailing | can point one past the last line).
func (sc *scanner) closeLine() error {
	line := sc.curLine()

	if sc.cursor != len(line) {
		if sc.hadOps || sc.cursor != 0 {
			return fmt.Errorf("%w: line %d: operators cover %d of %d characters",
				ErrMalformedAttribs, sc.li, sc.cursor, len(line))
		}
		// No operators at all: the whole line is one unstyled run.
		if len(line) > 0 {
			sc.runs = append(sc.runs, Run{Text: string(line)})
		}
	}

	if sc.li < len(sc.lines) {
		l := Line{Runs: sc.runs}
		extractLineAttrs(&l)
		sc.out = append(sc.out, l)
	}

	sc.runs = nil
	sc.cursor = 0
	sc.hadOps = false
	return nil
}

// finish closes the line in progress and emits any trailing lines the
// stream never reached as plain unstyled lines.
func (sc *scanner) finish() error {
	if err := sc.closeLine(); err != nil {
		return err
	}
	for sc.li++; sc.li < len(sc.lines); sc.li++ {
		if err := sc.closeLine(); err != nil {
			return err
		}
	}
	return nil
}

func base36(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty literal")
	}
	n, err := strconv.ParseInt(strings.ToLower(s), 36, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid base36 literal %q", s)
	}
	return n, nil
}
