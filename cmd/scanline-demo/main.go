// Command scanline-demo drives the full rendering pipeline against a live
// terminal: text surfaces stacked into a composite with a computed tint
// layer, flattened, diffed frame to frame, and streamed as minimal escape
// sequences. With -sixel it also draws a generated image through the
// occlusion-aware fragment path.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/odvcencio/scanline/pkg/compose"
	"github.com/odvcencio/scanline/pkg/diff"
	"github.com/odvcencio/scanline/pkg/sixel"
	"github.com/odvcencio/scanline/pkg/surface"
	"github.com/odvcencio/scanline/pkg/tracked"
)

func main() {
	frames := flag.Int("frames", 120, "frames to render before exiting")
	fps := flag.Int("fps", 30, "target frames per second")
	useSixel := flag.Bool("sixel", false, "draw a Sixel image layer (requires terminal support)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(logger, *frames, *fps, *useSixel); err != nil {
		logger.Error("demo failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, frames, fps int, useSixel bool) error {
	fd := int(os.Stdout.Fd())
	width, height := 80, 24
	if term.IsTerminal(fd) {
		w, h, err := term.GetSize(fd)
		if err != nil {
			return fmt.Errorf("query terminal size: %w", err)
		}
		width, height = w, h
	}
	logger.Info("starting", "width", width, "height", height, "frames", frames)

	metrics := surface.CellMetrics{PixelWidth: 8, PixelHeight: 16}
	store := tracked.NewStore()
	pool := surface.NewPool()

	var imageRef *tracked.Ref
	if useSixel {
		imageRef = sampleImage(store, metrics)
		defer imageRef.Release()
	}

	// Enter alternate screen, hide cursor.
	fmt.Print("\x1b[?1049h\x1b[?25l")
	defer fmt.Print("\x1b[0m\x1b[?25h\x1b[?1049l")

	previous := pool.Get(width, height, metrics)
	defer pool.Put(previous)

	interval := time.Second / time.Duration(fps)
	for frame := 0; frame < frames; frame++ {
		start := time.Now()

		current, err := renderFrame(pool, width, height, metrics, imageRef, frame)
		if err != nil {
			return fmt.Errorf("build frame %d: %w", frame, err)
		}

		d, err := diff.Compare(previous, current)
		if err != nil {
			return fmt.Errorf("diff frame %d: %w", frame, err)
		}
		os.Stdout.WriteString(diff.Render(diff.Encode(d)))

		pool.Put(previous)
		previous = current

		if wait := interval - time.Since(start); wait > 0 {
			time.Sleep(wait)
		}
	}
	return nil
}

// renderFrame builds one frame: a background banner layer, a moving text
// layer, and a computed dim-tint band, flattened to an eager surface.
func renderFrame(pool *surface.Pool, width, height int, metrics surface.CellMetrics, imageRef *tracked.Ref, frame int) (*surface.Surface, error) {
	background := pool.Get(width, height, metrics)
	defer pool.Put(background)
	background.Fill(surface.Region{W: width, H: 1}, surface.Cell{
		Content:    " ",
		Background: surface.RGB(30, 30, 60),
		Width:      1,
	})
	background.WriteText(2, 0, "scanline demo", surface.RGB(220, 220, 220), surface.RGB(30, 30, 60), surface.AttrBold)

	mover := pool.Get(20, 3, metrics)
	defer pool.Put(mover)
	mover.WriteText(0, 1, "●●● moving layer ●●●", surface.RGB(80, 200, 120), nil, surface.AttrNone)

	stack := compose.New(width, height, metrics)
	if err := stack.AddLayer(background, 0, 0); err != nil {
		return nil, fmt.Errorf("add background layer: %w", err)
	}
	if err := stack.AddLayer(mover, frame%max(1, width-20), 2+frame/8%max(1, height-6)); err != nil {
		return nil, fmt.Errorf("add text layer: %w", err)
	}

	if imageRef != nil {
		canvas := surface.NewWithMetrics(width, height, metrics)
		defer canvas.ReleaseRefs()
		canvas.WriteImage(2, 6, imageRef)
		if err := stack.AddLayer(canvas, 0, 0); err != nil {
			return nil, fmt.Errorf("add image layer: %w", err)
		}
		for _, frag := range stack.SixelFragments() {
			fmt.Printf("\x1b[%d;%dH%s", frag.CellY+1, frag.CellX+1, frag.Encode())
		}
	}

	// Dim everything below the banner row ever so slightly, as a computed
	// layer exercising the look-below path.
	stack.AddComputedLayer(0, 0, func(x, y int, ctx *compose.Context) surface.Cell {
		if y == 0 {
			return surface.UnwrittenCell()
		}
		below := ctx.GetBelow(x, y)
		if below.Foreground != nil {
			below.Foreground = below.Foreground.Blend(surface.RGB(0, 0, 0), 0.15)
		}
		return below
	})

	return stack.Flatten(), nil
}

// sampleImage builds a small gradient swatch and registers it with the
// store.
func sampleImage(store *tracked.Store, metrics surface.CellMetrics) *tracked.Ref {
	buf := sixel.NewBuffer(96, 48)
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			buf.Set(x, y, sixel.RGBA{
				R: uint8(x * 255 / buf.Width()),
				G: uint8(y * 255 / buf.Height()),
				B: 160,
				A: 255,
			})
		}
	}
	return surface.NewImageRef(store, buf, metrics)
}
