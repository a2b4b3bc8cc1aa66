// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import "testing"

func TestTypeConstants(t *testing.T) {
	cases := []struct {
		typ      Type
		move     float32
		cover    float32
	}{
		{Open, 1.0, 0.0},
		{Rough, 0.7, 0.2},
		{Mud, 0.4, 0.0},
		{Crater, 0.6, 0.5},
		{Trench, 0.9, 0.8},
		{Water, 0.2, 0.0},
		{Road, 1.3, 0.0},
		{Forest, 0.6, 0.4},
		{Rubble, 0.5, 0.3},
	}
	for _, c := range cases {
		if got := c.typ.MovementMultiplier(); got != c.move {
			t.Errorf("%s movement mult = %v, want %v", c.typ, got, c.move)
		}
		if got := c.typ.Cover(); got != c.cover {
			t.Errorf("%s cover = %v, want %v", c.typ, got, c.cover)
		}
	}
}

func TestWorldToGridInBounds(t *testing.T) {
	g := NewGrid(10, 10, 2.0)
	gx, gy := g.WorldToGrid(0, 0)
	if gx < 0 || gx >= g.Width || gy < 0 || gy >= g.Height {
		t.Fatalf("out of bounds: %d,%d", gx, gy)
	}
}

func TestApplyCraterReducesHeightAndPromotesType(t *testing.T) {
	g := NewGrid(20, 20, 2.0)
	before := g.HeightAt(0, 0)
	g.ApplyCrater(0, 0, 5, 2)
	after := g.HeightAt(0, 0)
	if after >= before {
		t.Fatalf("expected height to decrease, got %v -> %v", before, after)
	}
	if len(g.Craters) != 1 {
		t.Fatalf("expected 1 crater record, got %d", len(g.Craters))
	}

	// The cell containing (0,0) is centered at (1,1), sqrt(2) from the
	// impact: damage = 2*(1-sqrt(2)/5) ~= 1.43, enough to promote Open to
	// Rough but below the 2.0 Crater threshold.
	cell := g.CellAt(0, 0)
	if cell.Type != Rough {
		t.Fatalf("expected promotion to Rough, got %v", cell.Type)
	}
}

func TestApplyCraterMonotone(t *testing.T) {
	g := NewGrid(20, 20, 2.0)
	g.ApplyCrater(0, 0, 5, 1)
	h1 := g.HeightAt(0, 0)
	d1 := g.CellAt(0, 0).Damage

	g.ApplyCrater(0, 0, 5, 1)
	h2 := g.HeightAt(0, 0)
	d2 := g.CellAt(0, 0).Damage

	if h2 > h1 {
		t.Fatalf("height increased across repeated craters: %v -> %v", h1, h2)
	}
	if d2 < d1 {
		t.Fatalf("damage decreased across repeated craters: %v -> %v", d1, d2)
	}
}

func TestApplyBarrageDeterministic(t *testing.T) {
	g1 := NewGrid(50, 50, 2.0)
	g2 := NewGrid(50, 50, 2.0)
	g1.ApplyBarrage(0, 0, 20, 8, 3, 1)
	g2.ApplyBarrage(0, 0, 20, 8, 3, 1)

	if len(g1.Craters) != len(g2.Craters) {
		t.Fatalf("crater count mismatch: %d vs %d", len(g1.Craters), len(g2.Craters))
	}
	for i := range g1.Craters {
		if g1.Craters[i] != g2.Craters[i] {
			t.Fatalf("crater %d mismatch: %+v vs %+v", i, g1.Craters[i], g2.Craters[i])
		}
	}
}

func TestUpdateAgesCraters(t *testing.T) {
	g := NewGrid(10, 10, 2.0)
	g.ApplyCrater(0, 0, 5, 1)
	g.Update(0.5)
	if g.Craters[0].Age != 0.5 {
		t.Fatalf("expected age 0.5, got %v", g.Craters[0].Age)
	}
}
