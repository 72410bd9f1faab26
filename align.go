package bramble

// Alignment returns the node's anchor.
func (n *Node) Alignment() Alignment { return n.align }

// Margin returns the shared margin used when a per-axis margin is zero.
func (n *Node) Margin() float64 { return n.margin }

// HorizMargin returns the horizontal margin override.
func (n *Node) HorizMargin() float64 { return n.hMargin }

// VertMargin returns the vertical margin override.
func (n *Node) VertMargin() float64 { return n.vMargin }

// SetAlign anchors the node inside its parent. With any value other than
// AlignNone the position is recomputed whenever the parent or the node is
// resized.
func (n *Node) SetAlign(a Alignment) error {
	if a > AlignBottomRight {
		return valueErrorf("invalid alignment %d", a)
	}
	if err := checkMargins(a, n.margin, n.hMargin, n.vMargin); err != nil {
		return err
	}
	n.align = a
	n.realign()
	return nil
}

// SetMargin sets the margin applied on both axes unless overridden.
func (n *Node) SetMargin(m float64) error {
	if err := checkMargins(n.align, m, n.hMargin, n.vMargin); err != nil {
		return err
	}
	n.margin = m
	n.realign()
	return nil
}

// SetHorizMargin overrides the horizontal margin. Zero means use Margin.
func (n *Node) SetHorizMargin(m float64) error {
	if err := checkMargins(n.align, n.margin, m, n.vMargin); err != nil {
		return err
	}
	n.hMargin = m
	n.realign()
	return nil
}

// SetVertMargin overrides the vertical margin. Zero means use Margin.
func (n *Node) SetVertMargin(m float64) error {
	if err := checkMargins(n.align, n.margin, n.hMargin, m); err != nil {
		return err
	}
	n.vMargin = m
	n.realign()
	return nil
}

// checkMargins rejects margins that make no sense for the anchor. A
// centered axis has nothing to push against.
func checkMargins(a Alignment, margin, h, v float64) error {
	switch a {
	case AlignCenter:
		if margin != 0 || h != 0 || v != 0 {
			return valueErrorf("CENTER alignment does not accept margins")
		}
	case AlignTopCenter, AlignBottomCenter:
		if h != 0 {
			return valueErrorf("%s alignment does not accept horiz_margin", a)
		}
	case AlignCenterLeft, AlignCenterRight:
		if v != 0 {
			return valueErrorf("%s alignment does not accept vert_margin", a)
		}
	}
	return nil
}

// realign recomputes the position from the parent's size.
func (n *Node) realign() {
	if n.align == AlignNone || n.owner == nil || n.self == nil {
		return
	}
	parent := n.owner.host.hostSize()
	b := n.self.Bounds()

	hm := n.hMargin
	if hm == 0 {
		hm = n.margin
	}
	vm := n.vMargin
	if vm == 0 {
		vm = n.margin
	}

	var x, y float64
	switch n.align {
	case AlignTopLeft, AlignCenterLeft, AlignBottomLeft:
		x = hm
	case AlignTopCenter, AlignCenter, AlignBottomCenter:
		x = (parent.X - b.W) / 2
	default:
		x = parent.X - b.W - hm
	}
	switch n.align {
	case AlignTopLeft, AlignTopCenter, AlignTopRight:
		y = vm
	case AlignCenterLeft, AlignCenter, AlignCenterRight:
		y = (parent.Y - b.H) / 2
	default:
		y = parent.Y - b.H - vm
	}

	// Bounds may not start at the position (circles and arcs are positioned
	// by their center), so shift by the same offset.
	off := n.pos.Sub(Vec2{b.X, b.Y})
	n.SetPosition(x+off.X, y+off.Y)
}
