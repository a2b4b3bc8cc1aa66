// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Snapshot is the structured, read-only view of a Grid exposed to hosts.
type Snapshot struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	CellSize float32        `json:"cell_size"`
	OriginX  float32        `json:"origin_x"`
	OriginY  float32        `json:"origin_y"`
	Heights  []float32      `json:"heights"`
	Types    []uint8        `json:"types"`
	Craters  []CraterRecord `json:"craters"`
}

// Snapshot builds a Snapshot from the current grid state. It is a pure read:
// it does not clear or mutate g.Craters.
func (g *Grid) Snapshot() Snapshot {
	heights := make([]float32, len(g.Cells))
	types := make([]uint8, len(g.Cells))
	for i, cell := range g.Cells {
		heights[i] = cell.Height
		types[i] = uint8(cell.Type)
	}
	craters := make([]CraterRecord, len(g.Craters))
	copy(craters, g.Craters)

	return Snapshot{
		Width:    g.Width,
		Height:   g.Height,
		CellSize: g.CellSize,
		OriginX:  g.OriginX,
		OriginY:  g.OriginY,
		Heights:  heights,
		Types:    types,
		Craters:  craters,
	}
}

// JSON serializes the snapshot. It never fails in a way that reaches the
// caller: a marshal error yields "{}", matching the host-facing string
// accessor contract used throughout the package.
func (s Snapshot) JSON() string {
	buf, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(buf)
}
