package bramble

import (
	"errors"
	"testing"
)

// --- Parent links ---

func TestChildrenParentLinks(t *testing.T) {
	parent := NewFrame(0, 0, 100, 100)
	child := NewFrame(0, 0, 10, 10)

	if err := parent.Children().Append(child); err != nil {
		t.Fatal(err)
	}
	if child.Parent() != parent {
		t.Errorf("Parent = %v, want parent frame", child.Parent())
	}
	if parent.Children().Index(child) != 0 {
		t.Error("child not in parent list")
	}

	serial := child.Serial()
	if err := parent.Children().Remove(child); err != nil {
		t.Fatal(err)
	}
	if child.Parent() != nil {
		t.Error("Parent should be nil after Remove")
	}
	if err := parent.Children().Append(child); err != nil {
		t.Fatal(err)
	}
	if child.Serial() != serial {
		t.Error("serial changed across remove/append")
	}
}

func TestChildrenMoveBetweenParents(t *testing.T) {
	a := NewFrame(0, 0, 100, 100)
	b := NewFrame(0, 0, 100, 100)
	child := NewCircle(0, 0, 5)

	a.Children().Append(child)
	b.Children().Append(child)

	if a.Children().Len() != 0 {
		t.Errorf("old parent still holds child: len %d", a.Children().Len())
	}
	if child.Parent() != b {
		t.Error("child should belong to b")
	}
}

func TestChildrenAppendSameListMovesToEnd(t *testing.T) {
	f := NewFrame(0, 0, 100, 100)
	x := NewFrame(0, 0, 1, 1)
	y := NewFrame(0, 0, 1, 1)
	f.Children().Extend(x, y)
	f.Children().Append(x)
	if f.Children().Len() != 2 {
		t.Fatalf("len = %d, want 2", f.Children().Len())
	}
	if last, _ := f.Children().At(-1); last != x {
		t.Error("re-appended child should be last")
	}
}

func TestChildrenErrors(t *testing.T) {
	f := NewFrame(0, 0, 100, 100)
	if err := f.Children().Append(nil); !errors.Is(err, ErrType) {
		t.Errorf("Append(nil) = %v, want ErrType", err)
	}
	gone := NewFrame(0, 0, 1, 1)
	gone.Dispose()
	if err := f.Children().Append(gone); !errors.Is(err, ErrRuntime) {
		t.Errorf("Append(disposed) = %v, want ErrRuntime", err)
	}
	if _, err := f.Children().At(3); !errors.Is(err, ErrIndex) {
		t.Errorf("At(3) = %v, want ErrIndex", err)
	}
	if _, err := f.Children().Pop(); !errors.Is(err, ErrIndex) {
		t.Errorf("Pop on empty = %v, want ErrIndex", err)
	}
	if err := f.Children().Remove(NewFrame(0, 0, 1, 1)); !errors.Is(err, ErrValue) {
		t.Errorf("Remove(stranger) = %v, want ErrValue", err)
	}
}

func TestChildrenCycle(t *testing.T) {
	a := NewFrame(0, 0, 100, 100)
	b := NewFrame(0, 0, 50, 50)
	c := NewFrame(0, 0, 10, 10)
	a.Children().Append(b)
	b.Children().Append(c)

	if err := c.Children().Append(a); !errors.Is(err, ErrValue) {
		t.Errorf("cycle: err = %v, want ErrValue", err)
	}
	if err := a.Children().Append(a); !errors.Is(err, ErrValue) {
		t.Errorf("self: err = %v, want ErrValue", err)
	}
}

func TestChildrenInsertMoves(t *testing.T) {
	tests := []struct {
		i    int
		move string
		want string
	}{
		{-1, "d", "abcd"},
		{-1, "a", "bcad"},
		{2, "a", "bacd"},
		{0, "d", "dabc"},
		{9, "b", "acdb"},
		{1, "b", "abcd"},
	}
	for _, tt := range tests {
		f := NewFrame(0, 0, 100, 100)
		byName := map[string]Drawable{}
		for _, n := range "abcd" {
			d := NewFrame(0, 0, 1, 1)
			d.SetName(string(n))
			byName[string(n)] = d
			f.Children().Append(d)
		}
		if err := f.Children().Insert(tt.i, byName[tt.move]); err != nil {
			t.Fatal(err)
		}
		got := ""
		for _, d := range f.Children().All() {
			got += d.Name()
		}
		if got != tt.want {
			t.Errorf("Insert(%d, %s) = %s, want %s", tt.i, tt.move, got, tt.want)
		}
	}
}

func TestChildrenInsertAndPop(t *testing.T) {
	f := NewFrame(0, 0, 100, 100)
	names := []string{"a", "b", "c"}
	for _, n := range names {
		d := NewFrame(0, 0, 1, 1)
		d.SetName(n)
		f.Children().Append(d)
	}
	mid := NewFrame(0, 0, 1, 1)
	mid.SetName("mid")
	f.Children().Insert(1, mid)
	if d, _ := f.Children().At(1); d.Name() != "mid" {
		t.Errorf("At(1) = %q, want mid", d.Name())
	}
	d, err := f.Children().PopAt(-1)
	if err != nil || d.Name() != "c" {
		t.Errorf("PopAt(-1) = %v, %v", d, err)
	}
	if d.Parent() != nil {
		t.Error("popped child should be detached")
	}
	if f.Children().Len() != 3 {
		t.Errorf("len = %d, want 3", f.Children().Len())
	}
}

func TestChildrenFind(t *testing.T) {
	root := NewFrame(0, 0, 100, 100)
	inner := NewFrame(0, 0, 50, 50)
	inner.SetName("panel")
	root.Children().Append(inner)
	for _, n := range []string{"enemy_1", "enemy_2", "hero"} {
		d := NewCircle(0, 0, 1)
		d.SetName(n)
		inner.Children().Append(d)
	}
	if root.Children().Find("enemy_*") != nil {
		t.Error("Find should not recurse")
	}
	if got := inner.Children().Find("enemy_*"); got == nil || got.Name() != "enemy_1" {
		t.Errorf("Find = %v", got)
	}
	if got := root.Children().FindAll("enemy_*", true); len(got) != 2 {
		t.Errorf("FindAll recursive = %d, want 2", len(got))
	}
}

func TestChildrenReplace(t *testing.T) {
	f := NewFrame(0, 0, 100, 100)
	a, b, c := NewFrame(0, 0, 1, 1), NewFrame(0, 0, 1, 1), NewFrame(0, 0, 1, 1)
	f.Children().Extend(a, b)
	if err := f.Children().Replace([]Drawable{c, a}); err != nil {
		t.Fatal(err)
	}
	if b.Parent() != nil {
		t.Error("dropped child should be detached")
	}
	if first, _ := f.Children().At(0); first != c {
		t.Error("Replace should keep the new order")
	}
	if err := f.Children().Replace([]Drawable{a, a}); !errors.Is(err, ErrValue) {
		t.Errorf("duplicate: err = %v, want ErrValue", err)
	}
	if f.Children().Len() != 2 {
		t.Error("failed Replace must not change the list")
	}
}

// --- Z order ---

func TestSortedStableByZ(t *testing.T) {
	f := NewFrame(0, 0, 100, 100)
	a, b, c := NewFrame(0, 0, 1, 1), NewFrame(0, 0, 1, 1), NewFrame(0, 0, 1, 1)
	a.SetZIndex(5)
	f.Children().Extend(a, b, c)

	got := f.Children().Sorted()
	if got[0] != b || got[1] != c || got[2] != a {
		t.Error("sort should be ascending z with ties in insertion order")
	}
	a.SetZIndex(-1)
	got = f.Children().Sorted()
	if got[0] != a {
		t.Error("z change should trigger a resort")
	}
}

func TestClickEqualZLaterWins(t *testing.T) {
	s := NewScene("s", 100, 100)
	first := NewFrame(0, 0, 50, 50)
	second := NewFrame(0, 0, 50, 50)
	first.OnClick = func(ClickEvent) {}
	second.OnClick = func(ClickEvent) {}
	s.Children().Extend(first, second)

	h := s.ClickAt(Vec2{10, 10})
	if h == nil || h.Target != second {
		t.Error("later-inserted drawable should take the click")
	}
}

// --- Alignment ---

func TestAlignCenterRecompute(t *testing.T) {
	parent := NewFrame(0, 0, 400, 200)
	child := NewFrame(0, 0, 50, 50)
	parent.Children().Append(child)
	if err := child.SetAlign(AlignCenter); err != nil {
		t.Fatal(err)
	}
	if child.Position() != (Vec2{175, 75}) {
		t.Errorf("position = %v, want (175,75)", child.Position())
	}
	parent.SetSize(200, 200)
	if child.Position() != (Vec2{75, 75}) {
		t.Errorf("after resize position = %v, want (75,75)", child.Position())
	}
	child.SetSize(100, 20)
	if child.Position() != (Vec2{50, 90}) {
		t.Errorf("after child resize position = %v, want (50,90)", child.Position())
	}
}

func TestAlignMarginRules(t *testing.T) {
	tests := []struct {
		align   Alignment
		set     func(*Frame) error
		wantErr bool
	}{
		{AlignCenter, func(f *Frame) error { return f.SetMargin(4) }, true},
		{AlignCenter, func(f *Frame) error { return f.SetHorizMargin(4) }, true},
		{AlignTopCenter, func(f *Frame) error { return f.SetHorizMargin(4) }, true},
		{AlignTopCenter, func(f *Frame) error { return f.SetVertMargin(4) }, false},
		{AlignCenterLeft, func(f *Frame) error { return f.SetVertMargin(4) }, true},
		{AlignTopLeft, func(f *Frame) error { return f.SetMargin(4) }, false},
	}
	for _, tt := range tests {
		f := NewFrame(0, 0, 10, 10)
		if err := f.SetAlign(tt.align); err != nil {
			t.Fatal(err)
		}
		err := tt.set(f)
		if tt.wantErr && !errors.Is(err, ErrValue) {
			t.Errorf("%s: err = %v, want ErrValue", tt.align, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected err %v", tt.align, err)
		}
	}
}

func TestAlignMargins(t *testing.T) {
	parent := NewFrame(0, 0, 200, 100)
	child := NewFrame(0, 0, 20, 10)
	parent.Children().Append(child)
	child.SetAlign(AlignBottomRight)
	child.SetMargin(5)
	if child.Position() != (Vec2{175, 85}) {
		t.Errorf("position = %v, want (175,85)", child.Position())
	}
	child.SetHorizMargin(10)
	if child.Position() != (Vec2{170, 85}) {
		t.Errorf("position = %v, want (170,85)", child.Position())
	}
}

func TestAlignSceneRoot(t *testing.T) {
	s := NewScene("s", 800, 600)
	f := NewFrame(0, 0, 100, 100)
	s.Children().Append(f)
	f.SetAlign(AlignCenter)
	if f.Position() != (Vec2{350, 250}) {
		t.Errorf("position = %v, want (350,250)", f.Position())
	}
}

// --- Node state ---

func TestOpacityClamped(t *testing.T) {
	f := NewFrame(0, 0, 1, 1)
	f.SetOpacity(2)
	if f.Opacity() != 1 {
		t.Errorf("Opacity = %v, want 1", f.Opacity())
	}
	f.SetOpacity(-1)
	if f.Opacity() != 0 {
		t.Errorf("Opacity = %v, want 0", f.Opacity())
	}
}

func TestSerialsUnique(t *testing.T) {
	seen := map[uint64]bool{}
	for i := 0; i < 100; i++ {
		s := NewFrame(0, 0, 1, 1).Serial()
		if seen[s] {
			t.Fatalf("duplicate serial %d", s)
		}
		seen[s] = true
	}
}

func TestGlobalPosition(t *testing.T) {
	a := NewFrame(10, 20, 100, 100)
	b := NewFrame(5, 5, 50, 50)
	c := NewCircle(1, 1, 2)
	a.Children().Append(b)
	b.Children().Append(c)
	if got := c.GlobalPosition(); got != (Vec2{16, 26}) {
		t.Errorf("GlobalPosition = %v, want (16,26)", got)
	}
}

func TestDirtyPropagation(t *testing.T) {
	a := NewFrame(0, 0, 100, 100)
	b := NewFrame(0, 0, 50, 50)
	a.Children().Append(b)
	a.clearDirty()
	b.clearDirty()

	b.SetPosition(3, 3)
	if !b.IsCompositeDirty() || b.IsDirty() {
		t.Error("moving should only mark composite dirty on the node")
	}
	if !a.IsDirty() {
		t.Error("parent should be dirty after child moved")
	}
}

func TestDisposeSubtree(t *testing.T) {
	a := NewFrame(0, 0, 100, 100)
	b := NewFrame(0, 0, 50, 50)
	c := NewCircle(0, 0, 2)
	a.Children().Append(b)
	b.Children().Append(c)

	b.Dispose()
	if !b.Disposed() || !c.Disposed() {
		t.Error("subtree should be disposed")
	}
	if a.Children().Len() != 0 {
		t.Error("disposed node should leave its parent")
	}
}

// --- Hit testing ---

func TestClickRoutingNested(t *testing.T) {
	s := NewScene("s", 200, 200)
	frame := NewFrame(10, 10, 100, 100)
	sprite := NewFrame(5, 5, 20, 20)
	s.Children().Append(frame)
	frame.Children().Append(sprite)

	var got ClickEvent
	sprite.OnClick = func(ev ClickEvent) { got = ev }
	frameClicked := false
	frame.OnClick = func(ClickEvent) { frameClicked = true }

	s.Dispatch(Event{Kind: EventMouseButton, Pos: Vec2{18, 18}, Button: MouseButtonLeft, State: StatePressed})
	if got.Target != sprite {
		t.Fatal("sprite should take the click")
	}
	if got.Pos != (Vec2{3, 3}) {
		t.Errorf("local = %v, want (3,3)", got.Pos)
	}
	if frameClicked {
		t.Error("frame should not be clicked")
	}
}

func TestClickOutsideIsNoop(t *testing.T) {
	s := NewScene("s", 200, 200)
	f := NewFrame(0, 0, 10, 10)
	called := false
	f.OnClick = func(ClickEvent) { called = true }
	s.Children().Append(f)
	s.Dispatch(Event{Kind: EventMouseButton, Pos: Vec2{-50, 500}})
	if called {
		t.Error("click outside should not route")
	}
}

func TestClickSkipsInvisible(t *testing.T) {
	s := NewScene("s", 200, 200)
	below := NewFrame(0, 0, 50, 50)
	above := NewFrame(0, 0, 50, 50)
	below.OnClick = func(ClickEvent) {}
	above.OnClick = func(ClickEvent) {}
	s.Children().Extend(below, above)
	above.SetVisible(false)
	if h := s.ClickAt(Vec2{5, 5}); h == nil || h.Target != below {
		t.Error("invisible drawable should not take clicks")
	}
}

func TestCircleAndLineHit(t *testing.T) {
	c := NewCircle(50, 50, 10)
	c.OnClick = func(ClickEvent) {}
	if c.ClickAt(Vec2{55, 55}) == nil {
		t.Error("point inside circle should hit")
	}
	if c.ClickAt(Vec2{59, 59}) != nil {
		t.Error("corner of bounding box should miss a circle")
	}

	l := NewLine(Vec2{0, 0}, Vec2{100, 0}, 4, ColorWhite)
	l.OnClick = func(ClickEvent) {}
	if l.ClickAt(Vec2{50, 1}) == nil {
		t.Error("point on line should hit")
	}
	if l.ClickAt(Vec2{50, 10}) != nil {
		t.Error("point far from line should miss")
	}
}

// --- Properties ---

func TestFrameProperties(t *testing.T) {
	f := NewFrame(0, 0, 10, 10)
	if err := f.SetProperty("fill_color.r", Int(200)); err != nil {
		t.Fatal(err)
	}
	if f.FillColor().R != 200 {
		t.Errorf("R = %d, want 200", f.FillColor().R)
	}
	if err := f.SetProperty("w", Float(40)); err != nil {
		t.Fatal(err)
	}
	if f.Size().X != 40 {
		t.Errorf("w = %v", f.Size().X)
	}
	if v, ok := f.Property("x"); !ok || v.Kind() != KindFloat {
		t.Errorf("x = %v, %v", v, ok)
	}
	if err := f.SetProperty("nope", Float(1)); !errors.Is(err, ErrValue) {
		t.Errorf("unknown property: err = %v, want ErrValue", err)
	}
	if err := f.SetProperty("x", String("left")); !errors.Is(err, ErrType) {
		t.Errorf("wrong kind: err = %v, want ErrType", err)
	}
	if !f.HasProperty("outline_color.a") {
		t.Error("outline_color.a should exist")
	}
}

func TestSpriteNumberAlias(t *testing.T) {
	s := NewSprite(0, 0, nil, 0)
	s.SetProperty("sprite_number", Int(7))
	if s.SpriteIndex() != 7 {
		t.Errorf("SpriteIndex = %d, want 7", s.SpriteIndex())
	}
	if v, _ := s.Property("sprite_index"); !v.Equal(Int(7)) {
		t.Errorf("sprite_index = %v", v)
	}
}

func TestCircleResize(t *testing.T) {
	c := NewCircle(0, 0, 5)
	c.Resize(40, 20)
	if c.Radius() != 10 {
		t.Errorf("Radius = %v, want 10", c.Radius())
	}
	if err := c.SetRadius(-1); !errors.Is(err, ErrValue) {
		t.Errorf("negative radius: err = %v, want ErrValue", err)
	}
}
