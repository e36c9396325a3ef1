package surface

import "sync"

type poolKey struct {
	width   int
	height  int
	metrics CellMetrics
}

// Pool recycles surfaces across frames, keyed by size and metrics. Tracked
// references are released when a surface enters the pool, so recycled
// surfaces never leak payload counts. The lock protects only the bucket
// bookkeeping.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Surface
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{buckets: make(map[poolKey][]*Surface)}
}

// Get returns a cleared surface of the requested size and metrics, reusing a
// pooled instance when one exists.
func (p *Pool) Get(width, height int, metrics CellMetrics) *Surface {
	key := poolKey{width: width, height: height, metrics: metrics}

	p.mu.Lock()
	bucket := p.buckets[key]
	var s *Surface
	if n := len(bucket); n > 0 {
		s = bucket[n-1]
		p.buckets[key] = bucket[:n-1]
	}
	p.mu.Unlock()

	if s == nil {
		return NewWithMetrics(width, height, metrics)
	}
	for i := range s.cells {
		s.cells[i] = UnwrittenCell()
	}
	return s
}

// Put returns a surface to the pool. Every tracked reference the surface
// holds is released first.
func (p *Pool) Put(s *Surface) {
	if s == nil {
		return
	}
	s.ReleaseRefs()
	key := poolKey{width: s.width, height: s.height, metrics: s.metrics}

	p.mu.Lock()
	p.buckets[key] = append(p.buckets[key], s)
	p.mu.Unlock()
}

// Len reports how many surfaces are currently banked.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
