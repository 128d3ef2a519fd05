// Package grid provides the 2D integer lattice agents move on.
package grid

import (
	"fmt"

	"episim/internal/core"
)

// BoundaryPolicy decides what happens to a move that crosses the grid edge.
type BoundaryPolicy string

const (
	// BoundaryWrap wraps the move around to the opposite edge (torus).
	BoundaryWrap BoundaryPolicy = "wrap"
	// BoundaryClamp pins the coordinate to the edge cell.
	BoundaryClamp BoundaryPolicy = "clamp"
)

// ParseBoundaryPolicy converts a config string into a BoundaryPolicy.
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch BoundaryPolicy(s) {
	case BoundaryWrap, BoundaryClamp:
		return BoundaryPolicy(s), nil
	case "":
		return BoundaryWrap, nil
	}
	return "", fmt.Errorf("%w: unknown boundary policy %q", core.ErrInvalidArgument, s)
}

// Grid is a Width x Height lattice with cells (0,0)..(Width-1, Height-1).
type Grid struct {
	Width    int
	Height   int
	Boundary BoundaryPolicy
}

// New validates the dimensions and returns a Grid.
func New(width, height int, boundary BoundaryPolicy) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: grid dimensions %dx%d must be positive", core.ErrInvalidArgument, width, height)
	}
	if boundary == "" {
		boundary = BoundaryWrap
	}
	return &Grid{Width: width, Height: height, Boundary: boundary}, nil
}

// Contains reports whether p is a cell of the grid.
func (g *Grid) Contains(p core.Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// steps are the four orthogonal neighbor offsets.
var steps = [4]core.Point{
	{X: 0, Y: -1}, // up
	{X: 0, Y: 1},  // down
	{X: -1, Y: 0}, // left
	{X: 1, Y: 0},  // right
}

// RandomWalk moves p one step to an orthogonal neighbor chosen uniformly
// from src, applying the grid's boundary policy. Under clamp, a step off the
// edge leaves the crossing coordinate pinned, so an edge cell can "move" in
// place.
func (g *Grid) RandomWalk(p core.Point, src core.RandomSource) core.Point {
	step := steps[src.Intn(len(steps))]
	next := core.Point{X: p.X + step.X, Y: p.Y + step.Y}
	return g.apply(next)
}

func (g *Grid) apply(p core.Point) core.Point {
	switch g.Boundary {
	case BoundaryClamp:
		p.X = clamp(p.X, 0, g.Width-1)
		p.Y = clamp(p.Y, 0, g.Height-1)
	default: // wrap
		p.X = wrap(p.X, g.Width)
		p.Y = wrap(p.Y, g.Height)
	}
	return p
}

// RandomCell returns a uniformly chosen cell, used to place agents that come
// without coordinates.
func (g *Grid) RandomCell(src core.RandomSource) core.Point {
	return core.Point{X: src.Intn(g.Width), Y: src.Intn(g.Height)}
}

// ChebyshevDist returns the chessboard distance between two cells, honoring
// wrap-around when the boundary policy is wrap.
func (g *Grid) ChebyshevDist(a, b core.Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if g.Boundary == BoundaryWrap {
		if w := g.Width - dx; w < dx {
			dx = w
		}
		if h := g.Height - dy; h < dy {
			dy = h
		}
	}
	if dx > dy {
		return dx
	}
	return dy
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
