// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package spatial

import "testing"

func TestGridInsertQuery(t *testing.T) {
	g := NewGrid(10)
	g.Rebuild([]Entry{
		{ID: 1, X: 0, Y: 0, Faction: 0},
		{ID: 2, X: 5, Y: 0, Faction: 0},
		{ID: 3, X: 100, Y: 100, Faction: 0},
	})

	results := g.QueryRadius(0, 0, 10)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != 1 || results[1].ID != 2 {
		t.Fatalf("expected ids [1,2] sorted by distance, got [%d,%d]", results[0].ID, results[1].ID)
	}
}

func TestGridFactionQueries(t *testing.T) {
	g := NewGrid(10)
	g.Rebuild([]Entry{
		{ID: 1, X: 0, Y: 0, Faction: 0},
		{ID: 2, X: 1, Y: 0, Faction: 1},
		{ID: 3, X: 2, Y: 0, Faction: 1},
	})

	friendly := g.QueryFaction(0, 0, 10, 0)
	if len(friendly) != 1 || friendly[0].ID != 1 {
		t.Fatalf("expected only id 1, got %v", friendly)
	}

	enemies := g.QueryEnemies(0, 0, 10, 0)
	if len(enemies) != 2 {
		t.Fatalf("expected 2 enemies, got %d", len(enemies))
	}
	if enemies[0].ID != 2 || enemies[1].ID != 3 {
		t.Fatalf("expected enemies sorted [2,3], got [%d,%d]", enemies[0].ID, enemies[1].ID)
	}
}

func TestGridNearestEnemy(t *testing.T) {
	g := NewGrid(10)
	g.Rebuild([]Entry{
		{ID: 1, X: 0, Y: 0, Faction: 0},
		{ID: 2, X: 3, Y: 0, Faction: 1},
		{ID: 3, X: 1, Y: 0, Faction: 1},
	})

	nearest, ok := g.NearestEnemy(0, 0, 10, 0)
	if !ok {
		t.Fatal("expected a match")
	}
	if nearest.ID != 3 {
		t.Fatalf("expected closest enemy id 3, got %d", nearest.ID)
	}

	_, ok = g.NearestEnemy(0, 0, 10, 1)
	if !ok {
		t.Fatal("expected a match for faction 1 querying enemies")
	}
}

func TestGridTieBreakByID(t *testing.T) {
	// Two entries equidistant from the query point must be ordered by
	// ascending id, independent of insertion order.
	g := NewGrid(10)
	g.Rebuild([]Entry{
		{ID: 9, X: 1, Y: 0, Faction: 0},
		{ID: 2, X: -1, Y: 0, Faction: 0},
	})

	results := g.QueryRadius(0, 0, 5)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != 2 || results[1].ID != 9 {
		t.Fatalf("expected tie-break order [2,9], got [%d,%d]", results[0].ID, results[1].ID)
	}
}

func TestGridClearReusesBuckets(t *testing.T) {
	g := NewGrid(10)
	g.Rebuild([]Entry{{ID: 1, X: 0, Y: 0, Faction: 0}})
	if g.Count() != 1 {
		t.Fatalf("expected count 1, got %d", g.Count())
	}
	g.Clear()
	if g.Count() != 0 {
		t.Fatalf("expected count 0 after clear, got %d", g.Count())
	}
	if len(g.QueryRadius(0, 0, 100)) != 0 {
		t.Fatal("expected no results after clear")
	}
}
