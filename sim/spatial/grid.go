// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package spatial implements the uniform grid used to answer radius and
// faction queries against the current tick's squad positions. A Grid is
// rebuilt from scratch every tick (see Grid.Rebuild) and never persists
// entries across ticks; it owns no goroutines and does no I/O.
package spatial

import "sort"

// Entry is one indexed position in the grid. ID is the owning squad's id,
// Faction lets faction-scoped queries skip a second lookup.
type Entry struct {
	ID      uint32
	X, Y    float32
	Faction uint8
}

type cellKey struct {
	cx, cy int32
}

// Grid is a uniform spatial hash over Entry positions.
type Grid struct {
	cellSize float32
	cells    map[cellKey][]Entry
	count    int
}

// NewGrid constructs an empty Grid with the given cell size. cellSize should
// be on the order of the largest query radius used against the grid, so that
// a radius query only has to visit a small, bounded number of cells.
func NewGrid(cellSize float32) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]Entry),
	}
}

func (g *Grid) cellOf(x, y float32) cellKey {
	return cellKey{
		cx: int32(floorDiv(x, g.cellSize)),
		cy: int32(floorDiv(y, g.cellSize)),
	}
}

func floorDiv(v, size float32) int32 {
	q := v / size
	i := int32(q)
	if q < 0 && float32(i) != q {
		i--
	}
	return i
}

// Clear empties the grid without releasing its bucket allocations, so the
// next Rebuild can reuse them.
func (g *Grid) Clear() {
	for k, bucket := range g.cells {
		g.cells[k] = bucket[:0]
	}
	g.count = 0
}

// Insert adds one entry to the grid.
func (g *Grid) Insert(e Entry) {
	key := g.cellOf(e.X, e.Y)
	g.cells[key] = append(g.cells[key], e)
	g.count++
}

// Rebuild clears the grid and inserts every entry yielded by entries. This is
// the only supported way to populate a Grid: entries are not removed or
// updated individually, matching the "rebuilt every tick" invariant.
func (g *Grid) Rebuild(entries []Entry) {
	g.Clear()
	for _, e := range entries {
		g.Insert(e)
	}
}

// Count returns the number of entries currently in the grid.
func (g *Grid) Count() int {
	return g.count
}

// CellCount returns the number of non-empty cells.
func (g *Grid) CellCount() int {
	n := 0
	for _, bucket := range g.cells {
		if len(bucket) > 0 {
			n++
		}
	}
	return n
}

func (g *Grid) forEachCandidate(x, y, radius float32, visit func(Entry)) {
	minCx := int32(floorDiv(x-radius, g.cellSize))
	maxCx := int32(floorDiv(x+radius, g.cellSize))
	minCy := int32(floorDiv(y-radius, g.cellSize))
	maxCy := int32(floorDiv(y+radius, g.cellSize))

	for cx := minCx; cx <= maxCx; cx++ {
		for cy := minCy; cy <= maxCy; cy++ {
			bucket := g.cells[cellKey{cx, cy}]
			for _, e := range bucket {
				visit(e)
			}
		}
	}
}

// sortResults orders matches by ascending squared distance, breaking ties by
// ascending id. The id tiebreak is required so that query results are
// reproducible regardless of map/bucket iteration order or goroutine count.
func sortResults(results []Entry, distSq []float32) {
	idx := make([]int, len(results))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if distSq[ia] != distSq[ib] {
			return distSq[ia] < distSq[ib]
		}
		return results[ia].ID < results[ib].ID
	})
	sorted := make([]Entry, len(results))
	for i, j := range idx {
		sorted[i] = results[j]
	}
	copy(results, sorted)
}

// QueryRadius returns every entry within radius of (x, y), sorted by
// ascending distance then ascending id.
func (g *Grid) QueryRadius(x, y, radius float32) []Entry {
	radiusSq := radius * radius
	var results []Entry
	var distSq []float32
	g.forEachCandidate(x, y, radius, func(e Entry) {
		dx, dy := e.X-x, e.Y-y
		d := dx*dx + dy*dy
		if d <= radiusSq {
			results = append(results, e)
			distSq = append(distSq, d)
		}
	})
	sortResults(results, distSq)
	return results
}

// QueryFaction returns entries within radius of (x, y) whose Faction equals
// faction, sorted by ascending distance then ascending id.
func (g *Grid) QueryFaction(x, y, radius float32, faction uint8) []Entry {
	radiusSq := radius * radius
	var results []Entry
	var distSq []float32
	g.forEachCandidate(x, y, radius, func(e Entry) {
		if e.Faction != faction {
			return
		}
		dx, dy := e.X-x, e.Y-y
		d := dx*dx + dy*dy
		if d <= radiusSq {
			results = append(results, e)
			distSq = append(distSq, d)
		}
	})
	sortResults(results, distSq)
	return results
}

// QueryEnemies returns entries within radius of (x, y) whose Faction differs
// from excludeFaction, sorted by ascending distance then ascending id.
func (g *Grid) QueryEnemies(x, y, radius float32, excludeFaction uint8) []Entry {
	radiusSq := radius * radius
	var results []Entry
	var distSq []float32
	g.forEachCandidate(x, y, radius, func(e Entry) {
		if e.Faction == excludeFaction {
			return
		}
		dx, dy := e.X-x, e.Y-y
		d := dx*dx + dy*dy
		if d <= radiusSq {
			results = append(results, e)
			distSq = append(distSq, d)
		}
	})
	sortResults(results, distSq)
	return results
}

// NearestEnemy returns the closest entry within radius whose Faction differs
// from excludeFaction, breaking distance ties by ascending id, and reports
// whether any match was found.
func (g *Grid) NearestEnemy(x, y, radius float32, excludeFaction uint8) (Entry, bool) {
	matches := g.QueryEnemies(x, y, radius, excludeFaction)
	if len(matches) == 0 {
		return Entry{}, false
	}
	return matches[0], true
}
