package gesture

import (
	"cmp"
	"slices"
)

// HitShape replaces an element's box as its hit region. Coordinates are
// element-local.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitCircle is a round hit region, inclusive of its edge.
type HitCircle struct {
	Center Vec2
	Radius float64
}

// Contains reports whether (x, y) lies in or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx, dy := x-c.Center.X, y-c.Center.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a closed polygon hit region, convex or not, using the
// even-odd rule. Fewer than three points never hit.
type HitPolygon []Vec2

// Contains reports whether (x, y) lies inside the polygon.
func (p HitPolygon) Contains(x, y float64) bool {
	if len(p) < 3 {
		return false
	}
	inside := false
	j := len(p) - 1
	for i := range p {
		a, b := p[i], p[j]
		if (a.Y > y) != (b.Y > y) && x < a.X+(y-a.Y)*(b.X-a.X)/(b.Y-a.Y) {
			inside = !inside
		}
		j = i
	}
	return inside
}

// contains tests a surface point against e's hit region.
func (e *Element) contains(x, y float64) bool {
	lx, ly := e.WorldToLocal(x, y)
	if e.HitShape != nil {
		return e.HitShape.Contains(lx, ly)
	}
	if e.Width == 0 && e.Height == 0 {
		return false
	}
	s := e.HitSlop
	return lx >= -s && lx <= e.Width+s && ly >= -s && ly <= e.Height+s
}

// hitTest returns the topmost hit element in e's subtree, or nil. Children
// sit above their parent.
func hitTest(e *Element, x, y float64) *Element {
	if !e.Visible || !e.Interactable {
		return nil
	}
	for _, c := range topmostFirst(e.children) {
		if hit := hitTest(c, x, y); hit != nil {
			return hit
		}
	}
	if e.contains(x, y) {
		return e
	}
	return nil
}

// topmostFirst orders siblings by descending ZIndex, later siblings first on
// ties.
func topmostFirst(children []*Element) []*Element {
	if len(children) < 2 {
		return children
	}
	out := slices.Clone(children)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b *Element) int { return cmp.Compare(b.ZIndex, a.ZIndex) })
	return out
}
