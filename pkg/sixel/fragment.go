package sixel

// Fragment is one visible slice of an image after occlusion. Region is in the
// source image's pixel coordinates; CellX/CellY anchor the full image on the
// cell grid. Each fragment can be cropped and re-encoded on its own.
type Fragment struct {
	Pixels *Buffer
	CellX  int
	CellY  int
	Region Rect
}

// Crop returns the fragment's pixels as an independent buffer.
func (f Fragment) Crop() *Buffer {
	return f.Pixels.Crop(f.Region)
}

// Encode renders just this fragment's region to a Sixel sequence.
func (f Fragment) Encode() string {
	cropped := f.Crop()
	if cropped == nil {
		return ""
	}
	return Encode(cropped)
}

// Visibility tracks the shrinking visible area of one image as occluders from
// higher layers and bounds clipping are applied. It starts at the image's
// full rectangle.
type Visibility struct {
	CellX   int
	CellY   int
	Layer   int
	Pixels  *Buffer
	visible []Rect
}

// NewVisibility starts tracking with the whole image visible. rect is the
// image's footprint in composite pixel space.
func NewVisibility(cellX, cellY, layer int, pixels *Buffer, rect Rect) *Visibility {
	return &Visibility{
		CellX:   cellX,
		CellY:   cellY,
		Layer:   layer,
		Pixels:  pixels,
		visible: []Rect{rect},
	}
}

// Occlude removes an occluding rectangle (composite pixel space) from the
// visible set.
func (v *Visibility) Occlude(hole Rect) {
	v.visible = subtractAll(v.visible, []Rect{hole})
}

// ClipTo intersects the visible set with bounds, dropping anything outside.
func (v *Visibility) ClipTo(bounds Rect) {
	clipped := v.visible[:0]
	for _, r := range v.visible {
		if cut := r.Intersect(bounds); !cut.Empty() {
			clipped = append(clipped, cut)
		}
	}
	v.visible = clipped
}

// FullyOccluded reports whether nothing remains visible.
func (v *Visibility) FullyOccluded() bool { return len(v.visible) == 0 }

// Regions returns the surviving rectangles in composite pixel space.
func (v *Visibility) Regions() []Rect { return v.visible }
