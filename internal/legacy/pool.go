// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package legacy decodes the pre-2022 note encoding: raw document text,
// a compressed operator string describing per-character formatting, and
// a numbered attribute pool the operators reference.
package legacy

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedPool is returned when the attribute pool cannot be decoded.
var ErrMalformedPool = errors.New("malformed attribute pool")

// Attr is one named formatting pair from the pool, e.g. ("bold", "true")
// or ("list", "number1").
type Attr struct {
	Name  string
	Value string
}

// Pool maps operator-stream indices to attributes. Built once per
// document and immutable afterwards.
type Pool map[int]Attr

// AttrSet is the snapshot of attributes active on one text run.
type AttrSet []Attr

// Get returns the value of the named attribute and whether it is present.
func (s AttrSet) Get(name string) (string, bool) {
	for _, a := range s {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Has reports whether the named attribute is present.
func (s AttrSet) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// DecodePool builds the lookup table from the raw numToAttrib mapping:
// string-encoded integer keys to [name, value] pairs. Any key that is not
// a non-negative integer literal, or any value that is not a two-element
// array of strings, is a decode failure.
func DecodePool(raw map[string]any) (Pool, error) {
	pool := make(Pool, len(raw))
	for key, val := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: key %q is not a non-negative integer", ErrMalformedPool, key)
		}

		pair, ok := val.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: entry %d is not a two-element array", ErrMalformedPool, idx)
		}
		name, nameOK := pair[0].(string)
		value, valueOK := pair[1].(string)
		if !nameOK || !valueOK {
			return nil, fmt.Errorf("%w: entry %d holds non-string elements", ErrMalformedPool, idx)
		}

		pool[idx] = Attr{Name: name, Value: value}
	}
	return pool, nil
}
