// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import "github.com/chewxy/math32"

const (
	craterTypePromote = 2.0
	rubblePromote     = 1.0
	roughPromote      = 0.5

	// goldenAngle and the sine-jitter coefficients below are the frozen
	// barrage scatter formula; changing them changes replay determinism
	// for every existing recorded match.
	goldenAngle    = 1.618
	jitterBase     = 0.3
	jitterScale    = 0.7
	jitterFreq     = 0.7
)

// ApplyCrater deforms the grid around (wx, wy): cells within radius have
// their height reduced and damage accumulated by a squared falloff, with
// terrain-type promotion evaluated afterward. Calling this twice at the same
// location is not idempotent (damage stacks) but is monotone: height never
// increases and damage never decreases.
func (g *Grid) ApplyCrater(wx, wy, radius, depth float32) {
	if radius <= 0 {
		return
	}
	minGx, minGy := g.WorldToGrid(wx-radius, wy-radius)
	maxGx, maxGy := g.WorldToGrid(wx+radius, wy+radius)

	for gy := minGy; gy <= maxGy; gy++ {
		for gx := minGx; gx <= maxGx; gx++ {
			cwx, cwy := g.GridToWorld(gx, gy)
			dx, dy := cwx-wx, cwy-wy
			dist := math32.Hypot(dx, dy)
			if dist > radius {
				continue
			}
			falloff := 1 - dist/radius
			cell := g.at(gx, gy)
			cell.Height -= depth * falloff * falloff
			cell.Damage += depth * falloff

			switch {
			case cell.Damage > craterTypePromote:
				cell.Type = Crater
			case cell.Damage > rubblePromote && cell.Type == Forest:
				cell.Type = Rubble
			case cell.Damage > roughPromote && cell.Type == Open:
				cell.Type = Rough
			}
		}
	}

	g.Craters = append(g.Craters, CraterRecord{X: wx, Y: wy, Radius: radius, Depth: depth, Age: 0})
}

// ApplyBarrage deterministically scatters count craters of the given radius
// and depth around (cx, cy) within the given spread, using a fixed
// angle/radius distribution keyed by crater index so that replays are
// bit-for-bit reproducible.
func (g *Grid) ApplyBarrage(cx, cy, spread float32, count int, craterRadius, craterDepth float32) {
	if count <= 0 {
		return
	}
	n := float32(count)
	for i := 0; i < count; i++ {
		fi := float32(i)
		angle := (fi/n)*2*math32.Pi + fi*goldenAngle
		dist := spread * (jitterBase + jitterScale*math32.Abs(math32.Sin(fi*jitterFreq)))
		x := cx + dist*math32.Cos(angle)
		y := cy + dist*math32.Sin(angle)
		g.ApplyCrater(x, y, craterRadius, craterDepth)
	}
}
