// Package trace records window events to a compact binary stream and plays
// them back into the simulator.
//
// A trace file starts with an 8 byte magic, followed by records. Each record
// is a protobuf-encoded message prefixed with its length as a 4 byte
// big-endian integer. The message fields are:
//
//	1 kind     varint
//	2 time     double, seconds since recording started
//	3 ints     packed sint64
//	4 floats   packed double
//	5 strings  repeated string
//
// Unknown fields are skipped so newer writers stay readable.
package trace

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Kind identifies the window event a record carries.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPos
	KindSize
	KindContentScale
	KindClose
	KindRefresh
	KindFocus
	KindIconify
	KindMaximize
	KindKey
	KindChar
	KindMouseButton
	KindCursorPos
	KindCursorEnter
	KindScroll
	KindDrop
	kindEnd
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindPos:          "pos",
	KindSize:         "size",
	KindContentScale: "scale",
	KindClose:        "close",
	KindRefresh:      "refresh",
	KindFocus:        "focus",
	KindIconify:      "iconify",
	KindMaximize:     "maximize",
	KindKey:          "key",
	KindChar:         "char",
	KindMouseButton:  "mousebutton",
	KindCursorPos:    "cursorpos",
	KindCursorEnter:  "cursorenter",
	KindScroll:       "scroll",
	KindDrop:         "drop",
}

func (k Kind) String() string {
	if k < kindEnd {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) Valid() bool { return k > KindUnknown && k < kindEnd }

// Record is one recorded event. The meaning of Ints, Floats and Strings
// depends on Kind:
//
//	pos, size        Ints{x, y} / Ints{width, height}
//	scale            Floats{x, y}
//	focus, iconify,
//	maximize,
//	cursorenter      Ints{0|1}
//	key              Ints{key, scancode, action, mods}
//	char             Ints{codepoint, mods}
//	mousebutton      Ints{button, action, mods}
//	cursorpos        Floats{x, y}
//	scroll           Floats{dx, dy}
//	drop             Strings{paths...}
type Record struct {
	Kind    Kind
	Time    float64
	Ints    []int64
	Floats  []float64
	Strings []string
}

const (
	fieldKind    protowire.Number = 1
	fieldTime    protowire.Number = 2
	fieldInts    protowire.Number = 3
	fieldFloats  protowire.Number = 4
	fieldStrings protowire.Number = 5
)

// arity is the number of ints and floats each kind needs.
var arity = map[Kind][2]int{
	KindPos:          {2, 0},
	KindSize:         {2, 0},
	KindContentScale: {0, 2},
	KindFocus:        {1, 0},
	KindIconify:      {1, 0},
	KindMaximize:     {1, 0},
	KindKey:          {4, 0},
	KindChar:         {2, 0},
	KindMouseButton:  {3, 0},
	KindCursorPos:    {0, 2},
	KindCursorEnter:  {1, 0},
	KindScroll:       {0, 2},
}

// Validate checks that the record carries the values its kind needs.
func (r Record) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("trace: invalid record kind %s", r.Kind)
	}
	want := arity[r.Kind]
	if len(r.Ints) < want[0] || len(r.Floats) < want[1] {
		return fmt.Errorf("trace: %s record needs %d ints and %d floats, has %d and %d",
			r.Kind, want[0], want[1], len(r.Ints), len(r.Floats))
	}
	return nil
}

// Bool reads Ints[0] as a flag.
func (r Record) Bool() bool {
	return len(r.Ints) > 0 && r.Ints[0] != 0
}

// AppendBinary appends the protobuf encoding of r to b.
func (r Record) AppendBinary(b []byte) []byte {
	b = protowire.AppendTag(b, fieldKind, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.Kind))

	if r.Time != 0 {
		b = protowire.AppendTag(b, fieldTime, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(r.Time))
	}

	if len(r.Ints) > 0 {
		var packed []byte
		for _, v := range r.Ints {
			packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(v))
		}
		b = protowire.AppendTag(b, fieldInts, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}

	if len(r.Floats) > 0 {
		packed := make([]byte, 0, 8*len(r.Floats))
		for _, v := range r.Floats {
			packed = protowire.AppendFixed64(packed, math.Float64bits(v))
		}
		b = protowire.AppendTag(b, fieldFloats, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}

	for _, s := range r.Strings {
		b = protowire.AppendTag(b, fieldStrings, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	return b
}

// UnmarshalBinary decodes one record message.
func (r *Record) UnmarshalBinary(b []byte) error {
	*r = Record{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("trace: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldKind && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			r.Kind = KindUnknown
			if v < uint64(kindEnd) {
				r.Kind = Kind(v)
			}
		case num == fieldTime && typ == protowire.Fixed64Type:
			var v uint64
			v, n = protowire.ConsumeFixed64(b)
			r.Time = math.Float64frombits(v)
		case num == fieldInts && typ == protowire.BytesType:
			var packed []byte
			packed, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				if err := r.unpackInts(packed); err != nil {
					return err
				}
			}
		case num == fieldFloats && typ == protowire.BytesType:
			var packed []byte
			packed, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				if err := r.unpackFloats(packed); err != nil {
					return err
				}
			}
		case num == fieldStrings && typ == protowire.BytesType:
			var s string
			s, n = protowire.ConsumeString(b)
			r.Strings = append(r.Strings, s)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("trace: field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

func (r *Record) unpackInts(b []byte) error {
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return fmt.Errorf("trace: ints: %w", protowire.ParseError(n))
		}
		r.Ints = append(r.Ints, protowire.DecodeZigZag(v))
		b = b[n:]
	}
	return nil
}

func (r *Record) unpackFloats(b []byte) error {
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return fmt.Errorf("trace: floats: %w", protowire.ParseError(n))
		}
		r.Floats = append(r.Floats, math.Float64frombits(v))
		b = b[n:]
	}
	return nil
}

func (r Record) String() string {
	switch {
	case len(r.Strings) > 0:
		return fmt.Sprintf("%8.3f %-12s %q", r.Time, r.Kind, r.Strings)
	case len(r.Floats) > 0:
		return fmt.Sprintf("%8.3f %-12s %v", r.Time, r.Kind, r.Floats)
	default:
		return fmt.Sprintf("%8.3f %-12s %v", r.Time, r.Kind, r.Ints)
	}
}
