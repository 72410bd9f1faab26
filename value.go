package bramble

import (
	"fmt"
	"math"
)

// ValueKind tags the payload carried by a Value.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindFloat
	KindInt
	KindColor
	KindVec2
	KindString
	KindIntSeq // sprite-index frame sequences
)

func (k ValueKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindColor:
		return "Color"
	case KindVec2:
		return "Vec2"
	case KindString:
		return "string"
	case KindIntSeq:
		return "[]int"
	default:
		return "none"
	}
}

// Value is the tagged sum used by the property bag and the animation engine.
// The zero Value has KindNone.
type Value struct {
	kind ValueKind
	f    float64
	i    int
	c    Color
	v    Vec2
	s    string
	seq  []int
}

func Float(f float64) Value    { return Value{kind: KindFloat, f: f} }
func Int(i int) Value          { return Value{kind: KindInt, i: i} }
func ColorValue(c Color) Value { return Value{kind: KindColor, c: c} }
func Vec(x, y float64) Value   { return Value{kind: KindVec2, v: Vec2{x, y}} }
func VecValue(v Vec2) Value    { return Value{kind: KindVec2, v: v} }
func String(s string) Value    { return Value{kind: KindString, s: s} }

// Frames builds an int-sequence value. The slice is copied.
func Frames(seq ...int) Value {
	return Value{kind: KindIntSeq, seq: append([]int(nil), seq...)}
}

// Kind returns the payload tag.
func (v Value) Kind() ValueKind { return v.kind }

// AsFloat returns the value as a float. Ints widen; other kinds fail.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// AsInt returns the value as an int. Floats are rounded.
func (v Value) AsInt() (int, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		return int(math.Round(v.f)), true
	}
	return 0, false
}

func (v Value) AsColor() (Color, bool) { return v.c, v.kind == KindColor }
func (v Value) AsVec2() (Vec2, bool)   { return v.v, v.kind == KindVec2 }
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsFrames returns the int sequence. The returned slice must not be mutated.
func (v Value) AsFrames() ([]int, bool) { return v.seq, v.kind == KindIntSeq }

// Equal reports whether two values carry the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFloat:
		return v.f == o.f
	case KindInt:
		return v.i == o.i
	case KindColor:
		return v.c == o.c
	case KindVec2:
		return v.v == o.v
	case KindString:
		return v.s == o.s
	case KindIntSeq:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if v.seq[i] != o.seq[i] {
				return false
			}
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindColor:
		return fmt.Sprintf("Color(%d, %d, %d, %d)", v.c.R, v.c.G, v.c.B, v.c.A)
	case KindVec2:
		return fmt.Sprintf("Vec2(%g, %g)", v.v.X, v.v.Y)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindIntSeq:
		return fmt.Sprintf("%v", v.seq)
	}
	return "<none>"
}
