package sixel

// Rect is an axis-aligned pixel rectangle. Coordinates are half-open: Right
// and Bottom are exclusive. A Rect with non-positive width or height is
// empty.
type Rect struct {
	X, Y, W, H int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Empty reports whether the rectangle has zero area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether the pixel at (px, py) lies inside r.
func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px < r.Right() && py >= r.Y && py < r.Bottom()
}

// Intersect returns the overlap of r and o, or an empty Rect when they are
// disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.Right(), o.Right())
	y2 := min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Overlaps reports whether r and o share any pixel.
func (r Rect) Overlaps(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Subtract removes hole from r and returns the surviving pieces: up to four
// rectangles (above, below, left of, and right of the hole). The pieces are
// pairwise disjoint and together with hole∩r tile r exactly. If the hole does
// not touch r, the result is r itself.
func (r Rect) Subtract(hole Rect) []Rect {
	cut := r.Intersect(hole)
	if cut.Empty() {
		return []Rect{r}
	}

	out := make([]Rect, 0, 4)

	// Slice above the hole, full width.
	if cut.Y > r.Y {
		out = append(out, Rect{X: r.X, Y: r.Y, W: r.W, H: cut.Y - r.Y})
	}
	// Slice below the hole, full width.
	if cut.Bottom() < r.Bottom() {
		out = append(out, Rect{X: r.X, Y: cut.Bottom(), W: r.W, H: r.Bottom() - cut.Bottom()})
	}
	// Left and right slices span only the hole's rows.
	if cut.X > r.X {
		out = append(out, Rect{X: r.X, Y: cut.Y, W: cut.X - r.X, H: cut.H})
	}
	if cut.Right() < r.Right() {
		out = append(out, Rect{X: cut.Right(), Y: cut.Y, W: r.Right() - cut.Right(), H: cut.H})
	}

	return out
}

// subtractAll removes every hole from every rectangle in regions.
func subtractAll(regions []Rect, holes []Rect) []Rect {
	for _, hole := range holes {
		next := make([]Rect, 0, len(regions))
		for _, reg := range regions {
			next = append(next, reg.Subtract(hole)...)
		}
		regions = next
		if len(regions) == 0 {
			break
		}
	}
	return regions
}
