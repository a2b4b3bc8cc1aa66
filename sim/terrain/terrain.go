// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terrain implements the heightmap + terrain-type grid, crater
// deformation, and the movement/cover lookups the rest of the simulation
// reads from it.
package terrain

import "github.com/chewxy/math32"

// Type is a terrain-type tag. The zero value is Open.
type Type uint8

const (
	Open Type = iota
	Rough
	Mud
	Crater
	Trench
	Water
	Road
	Forest
	Rubble
	typeCount
)

func (t Type) String() string {
	switch t {
	case Open:
		return "Open"
	case Rough:
		return "Rough"
	case Mud:
		return "Mud"
	case Crater:
		return "Crater"
	case Trench:
		return "Trench"
	case Water:
		return "Water"
	case Road:
		return "Road"
	case Forest:
		return "Forest"
	case Rubble:
		return "Rubble"
	default:
		return "Open"
	}
}

// MovementMultiplier returns the fixed movement-speed multiplier for t.
func (t Type) MovementMultiplier() float32 {
	switch t {
	case Rough:
		return 0.7
	case Mud:
		return 0.4
	case Crater:
		return 0.6
	case Trench:
		return 0.9
	case Water:
		return 0.2
	case Road:
		return 1.3
	case Forest:
		return 0.6
	case Rubble:
		return 0.5
	default: // Open
		return 1.0
	}
}

// Cover returns the fixed cover value for t.
func (t Type) Cover() float32 {
	switch t {
	case Rough:
		return 0.2
	case Crater:
		return 0.5
	case Trench:
		return 0.8
	case Forest:
		return 0.4
	case Rubble:
		return 0.3
	default: // Open, Mud, Water, Road
		return 0.0
	}
}

// Cell is one terrain grid cell.
type Cell struct {
	Height float32
	Type   Type
	Damage float32
}

// CraterRecord is a deployed crater, kept for snapshot/visualization and to
// drive monotonic age tracking. It carries no reference back into the grid.
type CraterRecord struct {
	X, Y, Radius, Depth, Age float32
}

// Grid is the heightmap + terrain-type grid. It is not safe for concurrent
// mutation; the simulation treats it as read-only during a tick and only
// mutates it via host commands (craters) processed outside the fixed-step
// systems, per the concurrency model.
type Grid struct {
	Width, Height      int
	CellSize           float32
	OriginX, OriginY   float32
	Cells              []Cell
	Craters            []CraterRecord
}

// NewGrid builds a flat width*height grid of Open cells at height 0, centered
// on the origin.
func NewGrid(width, height int, cellSize float32) *Grid {
	g := &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		OriginX:  -float32(width) * cellSize / 2,
		OriginY:  -float32(height) * cellSize / 2,
		Cells:    make([]Cell, width*height),
	}
	return g
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WorldToGrid maps world coordinates to clamped grid indices.
func (g *Grid) WorldToGrid(wx, wy float32) (gx, gy int) {
	gx = clampInt(int(math32.Floor((wx-g.OriginX)/g.CellSize)), 0, g.Width-1)
	gy = clampInt(int(math32.Floor((wy-g.OriginY)/g.CellSize)), 0, g.Height-1)
	return
}

// GridToWorld returns the world-space center of cell (gx, gy).
func (g *Grid) GridToWorld(gx, gy int) (wx, wy float32) {
	wx = g.OriginX + (float32(gx)+0.5)*g.CellSize
	wy = g.OriginY + (float32(gy)+0.5)*g.CellSize
	return
}

func (g *Grid) at(gx, gy int) *Cell {
	return &g.Cells[gy*g.Width+gx]
}

// CellAt returns the cell containing world coordinates (wx, wy).
func (g *Grid) CellAt(wx, wy float32) Cell {
	gx, gy := g.WorldToGrid(wx, wy)
	return *g.at(gx, gy)
}

// HeightAt returns the terrain height at (wx, wy).
func (g *Grid) HeightAt(wx, wy float32) float32 {
	return g.CellAt(wx, wy).Height
}

// MovementMultiplierAt returns the movement multiplier at (wx, wy).
func (g *Grid) MovementMultiplierAt(wx, wy float32) float32 {
	return g.CellAt(wx, wy).Type.MovementMultiplier()
}

// CoverAt returns the cover value at (wx, wy).
func (g *Grid) CoverAt(wx, wy float32) float32 {
	return g.CellAt(wx, wy).Type.Cover()
}

// Update ages every crater record by dt. Called once per host frame,
// independent of the fixed-step accumulator.
func (g *Grid) Update(dt float32) {
	for i := range g.Craters {
		g.Craters[i].Age += dt
	}
}
