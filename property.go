package bramble

import "sort"

// property is one entry in a per-type property table. Tables are built in
// source, one per concrete type, and shared by all instances.
type property[T any] struct {
	kind ValueKind
	get  func(T) Value
	set  func(T, Value) error
}

type propertyTable[T any] map[string]property[T]

func (t propertyTable[T]) names() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (t propertyTable[T]) set(kind string, obj T, name string, v Value) error {
	p, ok := t[name]
	if !ok {
		return unknownPropertyError(kind, name, t.names())
	}
	return p.set(obj, v)
}

func (t propertyTable[T]) get(obj T, name string) (Value, bool) {
	p, ok := t[name]
	if !ok {
		return Value{}, false
	}
	return p.get(obj), true
}

func (t propertyTable[T]) has(name string) bool {
	_, ok := t[name]
	return ok
}

// kindOf returns the value kind of a property, or KindNone.
func (t propertyTable[T]) kindOf(name string) ValueKind {
	return t[name].kind
}

// merge copies every entry of others into t and returns t.
func (t propertyTable[T]) merge(others ...propertyTable[T]) propertyTable[T] {
	for _, o := range others {
		for k, v := range o {
			t[k] = v
		}
	}
	return t
}

func floatProp[T any](get func(T) float64, set func(T, float64)) property[T] {
	return property[T]{
		kind: KindFloat,
		get:  func(o T) Value { return Float(get(o)) },
		set: func(o T, v Value) error {
			f, ok := v.AsFloat()
			if !ok {
				return typeErrorf("expected number, got %s", v.Kind())
			}
			set(o, f)
			return nil
		},
	}
}

// checkedFloatProp is floatProp for setters that validate their input.
func checkedFloatProp[T any](get func(T) float64, set func(T, float64) error) property[T] {
	return property[T]{
		kind: KindFloat,
		get:  func(o T) Value { return Float(get(o)) },
		set: func(o T, v Value) error {
			f, ok := v.AsFloat()
			if !ok {
				return typeErrorf("expected number, got %s", v.Kind())
			}
			return set(o, f)
		},
	}
}

func checkedIntProp[T any](get func(T) int, set func(T, int) error) property[T] {
	return property[T]{
		kind: KindInt,
		get:  func(o T) Value { return Int(get(o)) },
		set: func(o T, v Value) error {
			i, ok := v.AsInt()
			if !ok {
				return typeErrorf("expected int, got %s", v.Kind())
			}
			return set(o, i)
		},
	}
}

func intProp[T any](get func(T) int, set func(T, int)) property[T] {
	return property[T]{
		kind: KindInt,
		get:  func(o T) Value { return Int(get(o)) },
		set: func(o T, v Value) error {
			i, ok := v.AsInt()
			if !ok {
				return typeErrorf("expected int, got %s", v.Kind())
			}
			set(o, i)
			return nil
		},
	}
}

func vecProp[T any](get func(T) Vec2, set func(T, Vec2)) property[T] {
	return property[T]{
		kind: KindVec2,
		get:  func(o T) Value { return VecValue(get(o)) },
		set: func(o T, v Value) error {
			p, ok := v.AsVec2()
			if !ok {
				return typeErrorf("expected Vec2, got %s", v.Kind())
			}
			set(o, p)
			return nil
		},
	}
}

func stringProp[T any](get func(T) string, set func(T, string)) property[T] {
	return property[T]{
		kind: KindString,
		get:  func(o T) Value { return String(get(o)) },
		set: func(o T, v Value) error {
			s, ok := v.AsString()
			if !ok {
				return typeErrorf("expected string, got %s", v.Kind())
			}
			set(o, s)
			return nil
		},
	}
}

// colorProps registers name plus name.r/.g/.b/.a channel views.
func colorProps[T any](name string, get func(T) Color, set func(T, Color)) propertyTable[T] {
	t := propertyTable[T]{
		name: {
			kind: KindColor,
			get:  func(o T) Value { return ColorValue(get(o)) },
			set: func(o T, v Value) error {
				c, ok := v.AsColor()
				if !ok {
					return typeErrorf("expected Color, got %s", v.Kind())
				}
				set(o, c)
				return nil
			},
		},
	}
	channel := func(pick func(*Color) *uint8) property[T] {
		return intProp(
			func(o T) int { c := get(o); return int(*pick(&c)) },
			func(o T, i int) {
				c := get(o)
				*pick(&c) = clampByte(float64(i))
				set(o, c)
			},
		)
	}
	t[name+".r"] = channel(func(c *Color) *uint8 { return &c.R })
	t[name+".g"] = channel(func(c *Color) *uint8 { return &c.G })
	t[name+".b"] = channel(func(c *Color) *uint8 { return &c.B })
	t[name+".a"] = channel(func(c *Color) *uint8 { return &c.A })
	return t
}

// baseProps are the properties every drawable carries.
func baseProps[T Drawable]() propertyTable[T] {
	return propertyTable[T]{
		"x": floatProp(
			func(d T) float64 { return d.Position().X },
			func(d T, x float64) { d.SetPosition(x, d.Position().Y) },
		),
		"y": floatProp(
			func(d T) float64 { return d.Position().Y },
			func(d T, y float64) { d.SetPosition(d.Position().X, y) },
		),
		"pos": vecProp(
			func(d T) Vec2 { return d.Position() },
			func(d T, p Vec2) { d.SetPosition(p.X, p.Y) },
		),
		"opacity": floatProp(
			func(d T) float64 { return d.Opacity() },
			func(d T, o float64) { d.SetOpacity(o) },
		),
		"z_index": intProp(
			func(d T) int { return d.ZIndex() },
			func(d T, z int) { d.SetZIndex(z) },
		),
		"visible": intProp(
			func(d T) int {
				if d.Visible() {
					return 1
				}
				return 0
			},
			func(d T, v int) { d.SetVisible(v != 0) },
		),
	}
}
