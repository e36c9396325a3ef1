package compose

import "github.com/odvcencio/scanline/pkg/surface"

// visitKey identifies one (position, layer) resolution in flight.
type visitKey struct {
	x, y  int
	layer int
}

// Context is the per-call resolution scope handed to compute functions. It
// owns the visited set that breaks cycles: while a computed cell is mid-
// computation, any query that re-enters the same (x, y, layer) gets an empty
// cell back instead of recursing. Nothing in a Context outlives the public
// call that created it, so resolution stays reentrant.
type Context struct {
	c       *Composite
	visited map[visitKey]struct{}
	// current is the layer whose compute function is running, for GetBelow.
	current int
}

func newContext(c *Composite) *Context {
	return &Context{
		c:       c,
		visited: make(map[visitKey]struct{}),
		current: len(c.layers),
	}
}

// resolveUpTo folds layers [0, layerCount) at (x, y).
func (ctx *Context) resolveUpTo(x, y, layerCount int) surface.Cell {
	acc := surface.UnwrittenCell()
	for i := 0; i < layerCount; i++ {
		acc = compositeCell(acc, ctx.cellAtLayer(i, x, y))
	}
	return acc
}

// cellAtLayer produces the raw contribution of layer i at composite position
// (x, y), before folding.
func (ctx *Context) cellAtLayer(i, x, y int) surface.Cell {
	l := ctx.c.layers[i]
	if l.source != nil {
		return ctx.c.staticCell(i, x, y)
	}

	key := visitKey{x: x, y: y, layer: i}
	if _, busy := ctx.visited[key]; busy {
		return surface.EmptyCell()
	}
	ctx.visited[key] = struct{}{}
	prev := ctx.current
	ctx.current = i

	cell := l.compute(x-l.offsetX, y-l.offsetY, ctx)

	ctx.current = prev
	delete(ctx.visited, key)
	return cell
}

// GetBelow resolves what the layers beneath the currently computing layer
// show at (x, y) in composite coordinates.
func (ctx *Context) GetBelow(x, y int) surface.Cell {
	if x < 0 || x >= ctx.c.width || y < 0 || y >= ctx.c.height {
		return surface.UnwrittenCell()
	}
	return ctx.resolveUpTo(x, y, ctx.current)
}

// GetAdjacent resolves the full stack at another composite position. Useful
// for effects that sample neighbors; self-reference is cut by the visited
// set.
func (ctx *Context) GetAdjacent(x, y int) surface.Cell {
	if x < 0 || x >= ctx.c.width || y < 0 || y >= ctx.c.height {
		return surface.UnwrittenCell()
	}
	return ctx.resolveUpTo(x, y, len(ctx.c.layers))
}

// GetAtLayer returns layer i's raw contribution at (x, y), without folding
// lower layers in.
func (ctx *Context) GetAtLayer(i, x, y int) surface.Cell {
	if i < 0 || i >= len(ctx.c.layers) {
		return surface.UnwrittenCell()
	}
	if x < 0 || x >= ctx.c.width || y < 0 || y >= ctx.c.height {
		return surface.UnwrittenCell()
	}
	return ctx.cellAtLayer(i, x, y)
}
