// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package noise provides deterministic initial terrain feature placement
// (forest patches, roads, rough ground) driven by perlin noise.
// sim.NewWorldWithConfig paints every new world's terrain grid with it,
// seeded by Config.TerrainSeed. The terrain grid's contract does not mandate any particular
// placement; this is one reasonable, reproducible implementation of it.
package noise

import (
	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"

	"tacticalsim/sim/terrain"
)

const (
	forestFrequency = 0.02
	roughFrequency  = 0.03
	forestThreshold = 0.35
	roughThreshold  = 0.3
)

// Generator deterministically paints Forest/Rough/Road features onto a
// terrain.Grid from a seed, using two independent perlin fields: one decides
// where Forest appears, the other decides where Rough appears on the cells
// the forest field left Open.
type Generator struct {
	forest *perlin.Perlin
	rough  *perlin.Perlin
}

// New creates a Generator seeded by seed. The same seed always yields the
// same terrain features.
func New(seed int64) *Generator {
	return &Generator{
		forest: perlin.NewPerlin(2.0, 2.0, 3, seed),
		rough:  perlin.NewPerlin(2.0, 2.0, 3, seed+1),
	}
}

// Paint walks every cell of g and assigns Forest/Rough terrain types based on
// noise sampled at each cell's world-space center, then paints one straight
// Road through the grid's vertical center. Existing Open cells are the only
// ones eligible for promotion: the generator never overwrites a cell a host
// has already carved out via ApplyCrater.
func (gen *Generator) Paint(g *terrain.Grid) {
	for gy := 0; gy < g.Height; gy++ {
		for gx := 0; gx < g.Width; gx++ {
			wx, wy := g.GridToWorld(gx, gy)
			if g.Cells[gy*g.Width+gx].Type != terrain.Open {
				continue
			}
			if gx == g.Width/2 {
				g.Cells[gy*g.Width+gx].Type = terrain.Road
				continue
			}
			forestNoise := gen.forest.Noise2D(float64(wx)*forestFrequency, float64(wy)*forestFrequency)
			if forestNoise > forestThreshold {
				g.Cells[gy*g.Width+gx].Type = terrain.Forest
				continue
			}
			roughNoise := gen.rough.Noise2D(float64(wx)*roughFrequency, float64(wy)*roughFrequency)
			if roughNoise > roughThreshold {
				g.Cells[gy*g.Width+gx].Type = terrain.Rough
			}
		}
	}
}

// clamp01 keeps noise values sane for callers sampling raw octave output
// outside of Paint.
func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
