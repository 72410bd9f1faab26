package bramble

import "testing"

func TestScrollToJump(t *testing.T) {
	g := newTestGrid(t, 20, 20)
	g.ScrollTo(Point{3, 4}, 0, EaseLinear)
	if g.Center() != (Vec2{56, 72}) {
		t.Errorf("Center = %v, want (56,72)", g.Center())
	}
	if g.Scrolling() {
		t.Error("zero duration should not leave a glide running")
	}
}

func TestScrollToGlide(t *testing.T) {
	g := newTestGrid(t, 20, 20)
	g.CenterOn(Point{0, 0})
	g.ScrollTo(Point{10, 0}, 1.0, EaseLinear)
	if !g.Scrolling() {
		t.Fatal("glide should be running")
	}

	g.update(0.5)
	if c := g.Center(); !approx(c.X, 88) || c.Y != 8 {
		t.Errorf("Center halfway = %v, want (88,8)", c)
	}
	g.update(0.5)
	if c := g.Center(); !approx(c.X, 168) {
		t.Errorf("Center at end = %v, want x 168", c)
	}
	if g.Scrolling() {
		t.Error("glide should finish")
	}
}

func TestCenterOnCancelsGlide(t *testing.T) {
	g := newTestGrid(t, 20, 20)
	g.ScrollTo(Point{10, 10}, 1.0, EaseOutQuad)
	g.CenterOn(Point{1, 1})
	g.update(0.5)
	if g.Center() != (Vec2{24, 24}) {
		t.Errorf("Center = %v, want (24,24)", g.Center())
	}
}

func TestSceneUpdateAdvancesGrids(t *testing.T) {
	s := NewScene("s", 320, 240)
	panel := NewFrame(0, 0, 100, 100)
	g := newTestGrid(t, 20, 20)
	panel.Children().Append(g)
	s.Children().Append(panel)

	g.CenterOn(Point{0, 0})
	g.ScrollTo(Point{0, 10}, 0.5, EaseLinear)
	s.update(0.5)
	if c := g.Center(); !approx(c.Y, 168) {
		t.Errorf("nested grid Center = %v, want y 168", c)
	}
}
