package bramble

import (
	"errors"
	"testing"
)

func inBucket(g *Grid, e *Entity) bool {
	c := e.Cell()
	for _, o := range g.EntitiesAt(c.X, c.Y) {
		if o == e {
			return true
		}
	}
	return false
}

// --- Collection and spatial index ---

func TestEntityAppendIndexes(t *testing.T) {
	g := openGrid(t, 10, 10)
	e := NewEntity(3, 4, nil, 0)
	if err := g.Entities().Append(e); err != nil {
		t.Fatal(err)
	}
	if e.Grid() != g {
		t.Error("Grid should be set")
	}
	if !inBucket(g, e) {
		t.Error("entity missing from its cell bucket")
	}
}

func TestEntityMoveUpdatesHash(t *testing.T) {
	g := openGrid(t, 10, 10)
	e := NewEntity(1, 1, nil, 0)
	g.Entities().Append(e)

	moves := []Vec2{{1.5, 1.9}, {2, 1}, {7.2, 8.99}, {0, 0}}
	for _, m := range moves {
		e.SetPosition(m.X, m.Y)
		if !inBucket(g, e) {
			t.Fatalf("after move to %v entity not in bucket %v", m, e.Cell())
		}
		total := 0
		for y := 0; y < 10; y++ {
			for x := 0; x < 10; x++ {
				total += len(g.EntitiesAt(x, y))
			}
		}
		if total != 1 {
			t.Fatalf("after move to %v entity indexed %d times", m, total)
		}
	}
	if e.Cell() != (Point{0, 0}) {
		t.Errorf("Cell = %v", e.Cell())
	}
}

func TestEntityFractionalCell(t *testing.T) {
	e := NewEntity(-0.5, 2.99, nil, 0)
	if e.Cell() != (Point{-1, 2}) {
		t.Errorf("Cell = %v, want (-1,2)", e.Cell())
	}
}

func TestEntityBetweenGrids(t *testing.T) {
	a := openGrid(t, 5, 5)
	b := openGrid(t, 5, 5)
	e := NewEntity(2, 2, nil, 0)
	a.Entities().Append(e)
	b.Entities().Append(e)

	if a.Entities().Len() != 0 || len(a.EntitiesAt(2, 2)) != 0 {
		t.Error("old grid should forget the entity")
	}
	if e.Grid() != b || !inBucket(b, e) {
		t.Error("entity should be indexed on the new grid")
	}
}

func TestEntityCollectionOps(t *testing.T) {
	g := openGrid(t, 5, 5)
	es := make([]*Entity, 4)
	for i := range es {
		es[i] = NewEntity(float64(i), 0, nil, 0)
	}
	es[2].SetName("orc")
	g.Entities().Extend(es...)

	if last, _ := g.Entities().At(-1); last != es[3] {
		t.Error("At(-1) should be the last entity")
	}
	if _, err := g.Entities().At(4); !errors.Is(err, ErrIndex) {
		t.Errorf("At(4) err = %v, want ErrIndex", err)
	}
	if got := g.Entities().Slice(1, -1); len(got) != 2 || got[0] != es[1] {
		t.Errorf("Slice(1,-1) = %v", got)
	}
	if g.Entities().Find("orc") != es[2] {
		t.Error("Find(orc) failed")
	}

	g.Entities().Append(es[0])
	if last, _ := g.Entities().At(-1); last != es[0] || g.Entities().Len() != 4 {
		t.Error("re-appending should move to the end")
	}

	popped, _ := g.Entities().Pop()
	if popped != es[0] || popped.Grid() != nil || len(g.EntitiesAt(0, 0)) != 0 {
		t.Error("Pop should detach and unindex")
	}
	if err := g.Entities().Remove(popped); !errors.Is(err, ErrValue) {
		t.Errorf("Remove(stranger) err = %v, want ErrValue", err)
	}

	g.Entities().Clear()
	if g.Entities().Len() != 0 || es[1].Grid() != nil || len(g.EntitiesAt(1, 0)) != 0 {
		t.Error("Clear should empty the collection and the index")
	}
}

func TestEntityInsertMoves(t *testing.T) {
	tests := []struct {
		i    int
		move int
		want []int
	}{
		{-1, 3, []int{0, 1, 2, 3}},
		{-1, 0, []int{1, 2, 0, 3}},
		{2, 0, []int{1, 0, 2, 3}},
		{0, 3, []int{3, 0, 1, 2}},
		{-9, 2, []int{2, 0, 1, 3}},
	}
	for _, tt := range tests {
		g := openGrid(t, 5, 5)
		es := make([]*Entity, 4)
		for i := range es {
			es[i] = NewEntity(float64(i), 0, nil, 0)
		}
		g.Entities().Extend(es...)
		if err := g.Entities().Insert(tt.i, es[tt.move]); err != nil {
			t.Fatal(err)
		}
		for j, want := range tt.want {
			if got, _ := g.Entities().At(j); got != es[want] {
				t.Errorf("Insert(%d, e%d): slot %d is not e%d", tt.i, tt.move, j, want)
			}
		}
		if g.Entities().Len() != 4 || !inBucket(g, es[tt.move]) {
			t.Errorf("Insert(%d, e%d) changed membership", tt.i, tt.move)
		}
	}
}

func TestEntityAddErrors(t *testing.T) {
	g := openGrid(t, 5, 5)
	if err := g.Entities().Append(nil); !errors.Is(err, ErrType) {
		t.Errorf("Append(nil) err = %v, want ErrType", err)
	}
	e := NewEntity(0, 0, nil, 0)
	e.Dispose()
	if err := g.Entities().Append(e); !errors.Is(err, ErrRuntime) {
		t.Errorf("Append(disposed) err = %v, want ErrRuntime", err)
	}
}

func TestEntityDie(t *testing.T) {
	g := openGrid(t, 5, 5)
	e := NewEntity(1, 1, nil, 0)
	g.Entities().Append(e)
	e.Die()
	if e.Grid() != nil || g.Entities().Len() != 0 || len(g.EntitiesAt(1, 1)) != 0 {
		t.Error("Die should remove the entity from the grid")
	}
	if err := g.Entities().Append(e); err != nil {
		t.Errorf("dead entity should be re-addable: %v", err)
	}
}

func TestEntitiesInRadius(t *testing.T) {
	g := openGrid(t, 20, 20)
	near := NewEntity(6, 5, nil, 0)
	diag := NewEntity(7, 7, nil, 0)
	far := NewEntity(9, 5, nil, 0)
	g.Entities().Extend(near, diag, far)

	got := g.EntitiesInRadius(5, 5, 3)
	set := map[*Entity]bool{}
	for _, e := range got {
		set[e] = true
	}
	if !set[near] || !set[diag] {
		t.Errorf("near and diag (dist 2.83) should be in radius 3: %v", got)
	}
	if set[far] {
		t.Error("far (dist 4) should be out of radius 3")
	}
}

// --- Visibility ---

func TestEntityVisibility(t *testing.T) {
	g := openGrid(t, 10, 10)
	g.SetFOVRadius(3)
	e := NewEntity(5, 5, nil, 0)
	g.Entities().Append(e)

	if st, _ := e.At(5, 5); st.Visible || st.Discovered {
		t.Error("cells start unseen")
	}
	if err := e.UpdateVisibility(); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			st, _ := e.At(x, y)
			want := abs(x-5) <= 3 && abs(y-5) <= 3
			if st.Visible != want {
				t.Errorf("(%d,%d) visible = %v, want %v", x, y, st.Visible, want)
			}
			if st.Visible && !st.Discovered {
				t.Errorf("(%d,%d) visible but not discovered", x, y)
			}
		}
	}

	e.SetPosition(0, 0)
	e.UpdateVisibility()
	st, _ := e.At(8, 8)
	if st.Visible || !st.Discovered {
		t.Errorf("(8,8) = %+v, want discovered only", st)
	}
	if st, _ := e.At(0, 0); !st.Visible {
		t.Error("new cell should be visible")
	}
}

func TestEntityVisibilityErrors(t *testing.T) {
	e := NewEntity(0, 0, nil, 0)
	if err := e.UpdateVisibility(); !errors.Is(err, ErrRuntime) {
		t.Errorf("off-grid UpdateVisibility err = %v, want ErrRuntime", err)
	}
	if _, err := e.At(0, 0); !errors.Is(err, ErrRuntime) {
		t.Errorf("off-grid At err = %v, want ErrRuntime", err)
	}
	g := openGrid(t, 3, 3)
	g.Entities().Append(e)
	if _, err := e.At(3, 0); !errors.Is(err, ErrIndex) {
		t.Errorf("At out of range err = %v, want ErrIndex", err)
	}
}

func TestPerspectiveLayer(t *testing.T) {
	g := openGrid(t, 10, 10)
	g.SetFOVRadius(2)
	e := NewEntity(2, 2, nil, 0)
	g.Entities().Append(e)
	fog, _ := g.AddColorLayer("fog", 0)
	vis := Color{A: 0}
	seen := Color{A: 128}
	unknown := Color{A: 255}

	fog.ApplyPerspective(e, vis, seen, unknown)
	if c, _ := fog.At(2, 2); c != unknown {
		t.Errorf("before UpdateVisibility = %v, want unknown", c)
	}

	e.UpdateVisibility()
	if c, _ := fog.At(3, 3); c != vis {
		t.Errorf("(3,3) = %v, want visible", c)
	}
	if c, _ := fog.At(8, 8); c != unknown {
		t.Errorf("(8,8) = %v, want unknown", c)
	}

	e.SetPosition(7, 7)
	e.UpdateVisibility()
	if c, _ := fog.At(2, 2); c != seen {
		t.Errorf("(2,2) = %v, want discovered", c)
	}

	e.Dispose()
	if c, _ := fog.At(7, 7); c != unknown {
		t.Errorf("after dispose = %v, want unknown", c)
	}
}

func TestVisibleEntities(t *testing.T) {
	g := openGrid(t, 10, 10)
	g.SetFOVRadius(4)
	hero := NewEntity(1, 1, nil, 0)
	seen := NewEntity(3, 1, nil, 0)
	hidden := NewEntity(8, 1, nil, 0)
	behind := NewEntity(1, 4, nil, 0)
	g.SetCell(1, 3, false, false)
	g.Entities().Extend(hero, seen, hidden, behind)

	got, err := hero.VisibleEntities()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != seen {
		t.Errorf("VisibleEntities = %v, want only the nearby one", got)
	}
}

func TestEntityPathTo(t *testing.T) {
	g := openGrid(t, 6, 6)
	e := NewEntity(0, 0, nil, 0)
	if e.PathTo(Point{3, 3}) != nil {
		t.Error("off-grid PathTo should be nil")
	}
	g.Entities().Append(e)
	p := e.PathTo(Point{3, 3})
	checkPath(t, g, p, Point{0, 0}, Point{3, 3}, true)
}

func TestEntityProperties(t *testing.T) {
	g := openGrid(t, 6, 6)
	e := NewEntity(0, 0, nil, 0)
	g.Entities().Append(e)
	if err := e.SetProperty("pos", Vec(4, 5)); err != nil {
		t.Fatal(err)
	}
	if !inBucket(g, e) || e.Cell() != (Point{4, 5}) {
		t.Error("property write should move the entity in the index")
	}
	e.SetProperty("sprite_number", Int(9))
	if e.SpriteIndex() != 9 {
		t.Errorf("SpriteIndex = %d, want 9", e.SpriteIndex())
	}
	if !e.HasProperty("opacity") || e.HasProperty("w") {
		t.Error("unexpected property set")
	}
}
