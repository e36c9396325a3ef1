package surface

import (
	"encoding/binary"

	"github.com/odvcencio/scanline/pkg/sixel"
	"github.com/odvcencio/scanline/pkg/tracked"
)

// ImageData is the payload behind a cell's image handle: the pixels plus the
// cell metrics they were sized against.
type ImageData struct {
	Pixels  *sixel.Buffer
	Metrics CellMetrics
}

// CellFootprint returns how many columns and rows the image covers on the
// cell grid.
func (d *ImageData) CellFootprint() (cols, rows int) {
	return d.Metrics.CellsForPixels(d.Pixels.Width(), d.Pixels.Height())
}

// LinkData is the payload behind a cell's hyperlink handle.
type LinkData struct {
	URL string
	ID  string
}

// NewImageRef stores image pixels in the tracked store and returns a handle
// owned by the caller. Identical pixel content with identical metrics
// deduplicates to the same handle.
func NewImageRef(store *tracked.Store, pixels *sixel.Buffer, metrics CellMetrics) *tracked.Ref {
	fp := make([]byte, 0, pixels.Width()*pixels.Height()*4+24)
	var hdr [24]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(pixels.Width()))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(pixels.Height()))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(metrics.PixelWidth))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(metrics.PixelHeight))
	binary.LittleEndian.PutUint64(hdr[16:], uint64(int64(metrics.ActualWidth*1000)))
	fp = append(fp, hdr[:]...)
	for y := 0; y < pixels.Height(); y++ {
		for _, p := range pixels.Row(y) {
			fp = append(fp, p.R, p.G, p.B, p.A)
		}
	}
	return store.Acquire(tracked.KindImage, fp, func() any {
		return &ImageData{Pixels: pixels, Metrics: metrics}
	})
}

// NewLinkRef stores a hyperlink in the tracked store and returns a handle
// owned by the caller. The same URL and ID deduplicate to the same handle.
func NewLinkRef(store *tracked.Store, url, id string) *tracked.Ref {
	fp := make([]byte, 0, len(url)+len(id)+1)
	fp = append(fp, url...)
	fp = append(fp, 0)
	fp = append(fp, id...)
	return store.Acquire(tracked.KindHyperlink, fp, func() any {
		return &LinkData{URL: url, ID: id}
	})
}

// ImagePayload extracts the image payload from a cell's handle, nil when the
// cell carries no image.
func ImagePayload(c Cell) *ImageData {
	if c.Image == nil {
		return nil
	}
	data, _ := c.Image.Payload().(*ImageData)
	return data
}

// LinkPayload extracts the hyperlink payload from a cell's handle, nil when
// the cell carries no link.
func LinkPayload(c Cell) *LinkData {
	if c.Link == nil {
		return nil
	}
	data, _ := c.Link.Payload().(*LinkData)
	return data
}
