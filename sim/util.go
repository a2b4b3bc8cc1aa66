// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import "github.com/chewxy/math32"

func cosf(radians float32) float32 { return math32.Cos(radians) }
func sinf(radians float32) float32 { return math32.Sin(radians) }

// directionOrZero returns the unit vector from `from` to `to`, or the zero
// vector if the two points are within epsilon of each other. Every direction
// computation in the engine goes through this helper so that divisions by a
// near-zero distance never produce NaN or Inf.
func directionOrZero(from, to Vector2) Vector2 {
	delta := to.Sub(from)
	const epsilon = 1e-6
	if delta.LengthSquared() < epsilon*epsilon {
		return Vector2{}
	}
	return delta.Norm()
}
