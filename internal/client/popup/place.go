// Package popup places floating menus next to an anchor inside the
// terminal viewport and runs the row actions menu.
package popup

// Rect is an area in character cells, origin at the top-left corner.
type Rect struct {
	X, Y, W, H int
}

type Size struct {
	W, H int
}

// Placement is where a floating element goes.
type Placement struct {
	X, Y int
	// Flipped is set when the element opens above its anchor.
	Flipped bool
}

const (
	// Offset is the gap between the anchor and the menu.
	Offset = 1
	// Padding is the minimum distance kept from the viewport edges when
	// shifting horizontally.
	Padding = 2
)

// Place puts a menu of the given size below anchor, centred on it. When it
// would overflow the bottom and there is room above, it flips above the
// anchor. It is then shifted horizontally to stay inside the viewport.
func Place(anchor Rect, menu, viewport Size) Placement {
	p := Placement{
		X: anchor.X + anchor.W/2 - menu.W/2,
		Y: anchor.Y + anchor.H + Offset,
	}

	if p.Y+menu.H > viewport.H {
		above := anchor.Y - Offset - menu.H
		if above >= 0 {
			p.Y = above
			p.Flipped = true
		}
	}

	maxX := viewport.W - Padding - menu.W
	if p.X > maxX {
		p.X = maxX
	}
	if p.X < Padding {
		p.X = Padding
	}
	return p
}
