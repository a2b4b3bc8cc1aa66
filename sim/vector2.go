// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"math"

	"github.com/chewxy/math32"
)

// Vector2 is a 2D single-precision vector used throughout the simulation for
// positions, velocities, and steering forces.
type Vector2 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

func (v Vector2) Mul(factor float32) Vector2 {
	v.X *= factor
	v.Y *= factor
	return v
}

func (v Vector2) Div(divisor float32) Vector2 {
	return v.Mul(1.0 / divisor)
}

func (v Vector2) AddScaled(other Vector2, factor float32) Vector2 {
	v.X += other.X * factor
	v.Y += other.Y * factor
	return v
}

func (v Vector2) Add(other Vector2) Vector2 {
	v.X += other.X
	v.Y += other.Y
	return v
}

func (v Vector2) Sub(other Vector2) Vector2 {
	v.X -= other.X
	v.Y -= other.Y
	return v
}

func (v Vector2) Dot(other Vector2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Rot90 rotates 90 degrees counterclockwise (with Y pointing up).
func (v Vector2) Rot90() Vector2 {
	return Vector2{X: -v.Y, Y: v.X}
}

func (v Vector2) Distance(other Vector2) float32 {
	return v.Sub(other).Length()
}

func (v Vector2) DistanceSquared(other Vector2) float32 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

func (v Vector2) Length() float32 {
	return math32.Hypot(v.X, v.Y)
}

func (v Vector2) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y
}

func lerp(a, b, factor float32) float32 {
	return a + (b-a)*factor
}

func (v Vector2) Lerp(other Vector2, factor float32) Vector2 {
	v.X = lerp(v.X, other.X, factor)
	v.Y = lerp(v.Y, other.Y, factor)
	return v
}

// Norm returns the unit vector in the same direction, or the zero vector if
// called on the zero vector.
func (v Vector2) Norm() Vector2 {
	l := v.Length()
	if l == 0 {
		return Vector2{}
	}
	return v.Div(l)
}

// ClampLength scales v down to at most max, leaving it unchanged if it is
// already shorter.
func (v Vector2) ClampLength(max float32) Vector2 {
	lsq := v.LengthSquared()
	if lsq <= max*max || lsq == 0 {
		return v
	}
	return v.Mul(max / math32.Sqrt(lsq))
}

func (v Vector2) Floor() Vector2 {
	v.X = float32(math.Floor(float64(v.X)))
	v.Y = float32(math.Floor(float64(v.Y)))
	return v
}

func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
