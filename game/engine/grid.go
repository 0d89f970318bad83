package engine

import (
	"fmt"
	"strings"
)

// Grid owns the board cells. Each cell holds at most one occupant; plugged
// holes sit on a separate floor layer so sliders can pass over and rest on them.
type Grid struct {
	width, height int
	cells         [][]*Entity
	floor         [][]*Entity
}

// NewGrid creates an empty width x height grid.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height}
	g.cells = make([][]*Entity, height)
	g.floor = make([][]*Entity, height)
	for y := 0; y < height; y++ {
		g.cells[y] = make([]*Entity, width)
		g.floor[y] = make([]*Entity, width)
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Get returns the occupant at p, falling back to a plugged hole on the floor.
// It returns nil when p is out of bounds or empty.
func (g *Grid) Get(p Position) *Entity {
	if !g.InBounds(p) {
		return nil
	}
	if e := g.cells[p.Y][p.X]; e != nil {
		return e
	}
	return g.floor[p.Y][p.X]
}

// Occupant returns only the occupant layer at p.
func (g *Grid) Occupant(p Position) *Entity {
	if !g.InBounds(p) {
		return nil
	}
	return g.cells[p.Y][p.X]
}

// Place puts e at p and records the coordinate on e. The caller must have
// cleared e's previous cell.
func (g *Grid) Place(e *Entity, p Position) {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("engine: place %s at out-of-range %s", e.ID, p))
	}
	g.cells[p.Y][p.X] = e
	e.Pos = p
}

// Clear removes e from its last known cell.
func (g *Grid) Clear(e *Entity) {
	p := e.Pos
	if !g.InBounds(p) {
		return
	}
	if g.cells[p.Y][p.X] == e {
		g.cells[p.Y][p.X] = nil
	}
}

// sinkToFloor moves a freshly plugged hole from the occupant layer to the floor.
func (g *Grid) sinkToFloor(hole *Entity) {
	g.Clear(hole)
	g.floor[hole.Pos.Y][hole.Pos.X] = hole
}

// placeFloor is used by layouts that start with a plugged hole.
func (g *Grid) placeFloor(hole *Entity, p Position) {
	hole.Pos = p
	g.floor[p.Y][p.X] = hole
}

// Peek looks one cell ahead of p along d without mutating anything.
func (g *Grid) Peek(p Position, d Direction) *Entity {
	return g.Get(p.Step(d, 1))
}

// IsSafe reports whether moving from p along d avoids the edge and every
// hazard except a plugged hole.
func (g *Grid) IsSafe(p Position, d Direction) bool {
	next := p.Step(d, 1)
	if !g.InBounds(next) {
		return false
	}
	target := g.Get(next)
	if target == nil {
		return true
	}
	if target.IsOpenHole() {
		return false
	}
	// A plugged hole is ice again.
	return target.Kind == KindHole || !target.IsObstacle()
}

// Snapshot returns a copy of the board as symbols. Empty cells are "".
func (g *Grid) Snapshot() [][]string {
	out := make([][]string, g.height)
	for y := 0; y < g.height; y++ {
		row := make([]string, g.width)
		for x := 0; x < g.width; x++ {
			if e := g.Get(Position{X: x, Y: y}); e != nil {
				row[x] = e.Symbol()
			}
		}
		out[y] = row
	}
	return out
}

// Render draws the board as a bordered text table.
func (g *Grid) Render() string {
	var b strings.Builder
	border := strings.Repeat("-", g.width*5+1)
	b.WriteString(border)
	b.WriteByte('\n')
	for _, row := range g.Snapshot() {
		b.WriteByte('|')
		for _, sym := range row {
			if sym == "" {
				b.WriteString("    |")
				continue
			}
			fmt.Fprintf(&b, " %-2s |", sym)
		}
		b.WriteByte('\n')
		b.WriteString(border)
		b.WriteByte('\n')
	}
	return b.String()
}

// each visits every occupant and floor entity in reading order.
func (g *Grid) each(fn func(e *Entity)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if e := g.floor[y][x]; e != nil {
				fn(e)
			}
			if e := g.cells[y][x]; e != nil {
				fn(e)
			}
		}
	}
}
