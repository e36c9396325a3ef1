package surface

// Source is the capability interface shared by eager surfaces and lazy
// composites so either can be stacked or painted onto a destination.
// CellAt panics outside [0,Width)×[0,Height); callers translate and
// bounds-check before asking.
type Source interface {
	Width() int
	Height() int
	CellAt(x, y int) Cell
	Metrics() CellMetrics
	// HasImages reports whether the source carries any image cells, which
	// forces cell-metrics agreement when stacking.
	HasImages() bool
}
