// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package rlp implements the Recursive Length Prefix encoding used for
// the on-wire unit/approve/receipt/trace framing: a minimal
// byte-string/list codec, not the reflection-driven struct codec
// erigon's own rlp package layers on top. Callers build/consume []Value
// trees explicitly (see core/types for the per-entity Encode/Decode
// methods), which keeps this package a primitive rather than an
// ambient concern.
package rlp

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedEOF = errors.New("rlp: unexpected end of input")
	ErrExpectedList  = errors.New("rlp: expected list")
	ErrExpectedItem  = errors.New("rlp: expected string item")
	ErrTooLarge      = errors.New("rlp: item too large")
)

// Value is a decoded RLP node: either a byte string or a list of Values.
type Value struct {
	IsList bool
	Str    []byte
	List   []Value
}

func Bytes(b []byte) Value        { return Value{Str: b} }
func Uint64(v uint64) Value       { return Value{Str: encodeUint(v)} }
func List(items ...Value) Value   { return Value{IsList: true, List: items} }
func ListOf(items []Value) Value  { return Value{IsList: true, List: items} }

func encodeUint(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var b [8]byte
	n := 0
	for v > 0 {
		b[8-1-n] = byte(v)
		v >>= 8
		n++
	}
	return b[8-n:]
}

// AsUint64 decodes a big-endian minimal-length byte string as a uint64.
func (v Value) AsUint64() (uint64, error) {
	if v.IsList {
		return 0, ErrExpectedItem
	}
	if len(v.Str) > 8 {
		return 0, ErrTooLarge
	}
	var out uint64
	for _, b := range v.Str {
		out = out<<8 | uint64(b)
	}
	return out, nil
}

// Encode serialises v using the standard RLP byte-string/list framing.
func Encode(v Value) []byte {
	if !v.IsList {
		return encodeString(v.Str)
	}
	var body []byte
	for _, item := range v.List {
		body = append(body, Encode(item)...)
	}
	return append(encodeHeader(0xc0, 0xf7, len(body)), body...)
}

func encodeString(s []byte) []byte {
	if len(s) == 1 && s[0] < 0x80 {
		return []byte{s[0]}
	}
	return append(encodeHeader(0x80, 0xb7, len(s)), s...)
}

func encodeHeader(short, long byte, size int) []byte {
	if size < 56 {
		return []byte{short + byte(size)}
	}
	lenBytes := encodeUint(uint64(size))
	out := make([]byte, 0, 1+len(lenBytes))
	out = append(out, long+byte(len(lenBytes)))
	return append(out, lenBytes...)
}

// Decode parses the single top-level RLP value at the start of b, and
// returns any trailing bytes.
func Decode(b []byte) (Value, []byte, error) {
	if len(b) == 0 {
		return Value{}, nil, ErrUnexpectedEOF
	}
	tag := b[0]
	switch {
	case tag < 0x80:
		return Value{Str: b[0:1]}, b[1:], nil
	case tag < 0xb8:
		n := int(tag - 0x80)
		if len(b) < 1+n {
			return Value{}, nil, ErrUnexpectedEOF
		}
		return Value{Str: b[1 : 1+n]}, b[1+n:], nil
	case tag < 0xc0:
		lenOfLen := int(tag - 0xb7)
		n, rest, err := readLen(b[1:], lenOfLen)
		if err != nil {
			return Value{}, nil, err
		}
		if len(rest) < n {
			return Value{}, nil, ErrUnexpectedEOF
		}
		return Value{Str: rest[:n]}, rest[n:], nil
	case tag < 0xf8:
		n := int(tag - 0xc0)
		if len(b) < 1+n {
			return Value{}, nil, ErrUnexpectedEOF
		}
		return decodeList(b[1:1+n], b[1+n:])
	default:
		lenOfLen := int(tag - 0xf7)
		n, rest, err := readLen(b[1:], lenOfLen)
		if err != nil {
			return Value{}, nil, err
		}
		if len(rest) < n {
			return Value{}, nil, ErrUnexpectedEOF
		}
		return decodeList(rest[:n], rest[n:])
	}
}

func readLen(b []byte, lenOfLen int) (int, []byte, error) {
	if len(b) < lenOfLen {
		return 0, nil, ErrUnexpectedEOF
	}
	var n uint64
	for _, c := range b[:lenOfLen] {
		n = n<<8 | uint64(c)
	}
	if n > (1 << 32) {
		return 0, nil, ErrTooLarge
	}
	return int(n), b[lenOfLen:], nil
}

func decodeList(body, rest []byte) (Value, []byte, error) {
	var items []Value
	for len(body) > 0 {
		var item Value
		var err error
		item, body, err = Decode(body)
		if err != nil {
			return Value{}, nil, fmt.Errorf("rlp: decode list item: %w", err)
		}
		items = append(items, item)
	}
	return Value{IsList: true, List: items}, rest, nil
}

// AsList requires v to be a list and returns its items.
func (v Value) AsList() ([]Value, error) {
	if !v.IsList {
		return nil, ErrExpectedList
	}
	return v.List, nil
}

// At indexes into a list value, erroring if out of range or not a list.
func (v Value) At(i int) (Value, error) {
	items, err := v.AsList()
	if err != nil {
		return Value{}, err
	}
	if i < 0 || i >= len(items) {
		return Value{}, fmt.Errorf("rlp: index %d out of range (len %d)", i, len(items))
	}
	return items[i], nil
}
