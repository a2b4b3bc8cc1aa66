// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import "testing"

func TestNewWorldDefaults(t *testing.T) {
	w := NewWorld()
	if w.CurrentTick() != 0 || w.CurrentTime() != 0 {
		t.Fatalf("expected fresh world at tick 0, time 0")
	}
}

func TestNewWorldWithConfigRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FixedTimestep = 0
	if _, err := NewWorldWithConfig(cfg); err != ErrInvalidConfig {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestDefaultTestWorldHasTwelveSquads(t *testing.T) {
	w := NewDefaultTestWorld()
	if len(w.Squads()) != 12 {
		t.Fatalf("expected 12 squads, got %d", len(w.Squads()))
	}
}

func TestStepAdvancesTick(t *testing.T) {
	w := NewWorld()
	w.SpawnSquad(0, Blue, 0, 0)
	w.Step(0.1)
	if w.CurrentTick() == 0 {
		t.Fatal("expected tick to advance")
	}
}

// Scenario 1: move order.
func TestScenarioMoveOrder(t *testing.T) {
	w := NewDefaultTestWorld()
	w.OrderMove(0, 100.0, 50.0)
	for i := 0; i < 10; i++ {
		w.Step(0.1)
	}
	s := w.Squads()[0]
	if s.Position.X <= -50.0 {
		t.Fatalf("expected squad to move toward target, x=%v", s.Position.X)
	}
}

// Scenario 2: combat.
func TestScenarioCombat(t *testing.T) {
	w := NewWorld()
	w.SpawnSquad(0, Blue, 0, 0)
	w.SpawnSquad(1, Red, 30, 0)
	for i := 0; i < 10; i++ {
		w.Step(0.1)
	}
	for _, s := range w.Squads() {
		if s.Health.Current >= 100 {
			t.Fatalf("expected squad %d to take damage, health=%v", s.ID, s.Health.Current)
		}
		if s.Suppression <= 0 {
			t.Fatalf("expected squad %d to be suppressed, suppression=%v", s.ID, s.Suppression)
		}
	}
}

// Scenario 3: rout.
func TestScenarioRout(t *testing.T) {
	w := NewWorld()
	w.SpawnSquad(0, Blue, 0, 0)
	w.squadByID[0].Morale = 0.1
	w.applyRout()
	if w.squadByID[0].Order.Kind != OrderRetreat {
		t.Fatalf("expected Retreat order, got %v", w.squadByID[0].Order.Kind)
	}
}

// Scenario 4: crater damages a destructible.
func TestScenarioCrater(t *testing.T) {
	w := NewWorld()
	w.addDestructible(NewTree(0, 5, 0))
	w.pendingTerrainEvents = append(w.pendingTerrainEvents, TerrainDamageEvent{X: 0, Y: 0, Radius: 10, Depth: 2})
	w.applyTerrainDamageToDestructibles()
	if w.destructibles[0].Health.Current >= 30 {
		t.Fatalf("expected destructible health < 30, got %v", w.destructibles[0].Health.Current)
	}
}

// Scenario 5: mass spawn.
func TestScenarioMassSpawn(t *testing.T) {
	w := NewWorld()
	w.SpawnMassSquads(Blue, -40, 0, 100, 60, 1)
	w.SpawnMassSquads(Red, 40, 0, 100, 60, 1000)
	w.Step(0.05)
	snap := w.Snapshot()
	if len(snap.Squads) != 200 {
		t.Fatalf("expected 200 squads in snapshot, got %d", len(snap.Squads))
	}
	if w.SpatialGrid().Count() != 200 {
		t.Fatalf("expected spatial grid count 200, got %d", w.SpatialGrid().Count())
	}
}

// Scenario 6: binary snapshot layout.
func TestScenarioBinarySnapshot(t *testing.T) {
	w := NewWorld()
	w.SpawnSquad(1, Blue, 1, 1)
	w.SpawnSquad(2, Blue, 2, 2)
	w.SpawnSquad(3, Red, 3, 3)

	buf := w.BinarySnapshot()
	if buf[0] != 3 {
		t.Fatalf("expected buf[0]=3, got %v", buf[0])
	}
	wantLen := 1 + 14*3
	if len(buf) != wantLen {
		t.Fatalf("expected buffer length %d, got %d", wantLen, len(buf))
	}
	if buf[1] != 1 || buf[15] != 2 || buf[29] != 3 {
		t.Fatalf("expected ids at offsets 1,15,29 to be 1,2,3; got %v,%v,%v", buf[1], buf[15], buf[29])
	}
}

func TestUniversalInvariants(t *testing.T) {
	w := NewDefaultTestWorld()
	for i := 0; i < 50; i++ {
		w.Step(0.05)
	}
	for _, s := range w.Squads() {
		if s.Health.Current < 0 || s.Health.Current > s.Health.Max {
			t.Fatalf("squad %d health out of bounds: %v/%v", s.ID, s.Health.Current, s.Health.Max)
		}
		if s.Morale < 0 || s.Morale > 1 {
			t.Fatalf("squad %d morale out of bounds: %v", s.ID, s.Morale)
		}
		if s.Suppression < 0 {
			t.Fatalf("squad %d suppression negative: %v", s.ID, s.Suppression)
		}
		wantSector := SectorOf(s.Position.X, s.Position.Y, w.config.SectorSize)
		if s.Sector != wantSector {
			t.Fatalf("squad %d sector mismatch: got %v want %v", s.ID, s.Sector, wantSector)
		}
	}
	if w.SpatialGrid().Count() != w.aliveCount() {
		t.Fatalf("spatial grid count %d != alive count %d", w.SpatialGrid().Count(), w.aliveCount())
	}
}

func TestDeterminism(t *testing.T) {
	run := func() string {
		w := NewDefaultTestWorld()
		w.OrderMove(0, 40, 0)
		w.SpawnCrater(10, 10, 5, 1)
		for i := 0; i < 20; i++ {
			w.Step(0.05)
		}
		return w.SnapshotJSON()
	}
	a := run()
	b := run()
	if a != b {
		t.Fatalf("expected identical snapshots across runs;\na=%s\nb=%s", a, b)
	}
}

func TestMonotonicity(t *testing.T) {
	w := NewDefaultTestWorld()
	var lastTick uint64
	var lastTime float32
	for i := 0; i < 10; i++ {
		w.Step(0.1)
		if w.CurrentTick() < lastTick {
			t.Fatal("tick decreased")
		}
		if w.CurrentTime() < lastTime {
			t.Fatal("time decreased")
		}
		lastTick = w.CurrentTick()
		lastTime = w.CurrentTime()
	}
}

func TestOrderHoldIdempotent(t *testing.T) {
	w := NewWorld()
	w.SpawnSquad(0, Blue, 0, 0)
	w.OrderHold(0)
	first := w.squadByID[0].Order
	w.OrderHold(0)
	second := w.squadByID[0].Order
	if first != second {
		t.Fatal("expected repeated OrderHold to be a no-op")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	w := NewDefaultTestWorld()
	w.Step(0.1)
	snap := w.Snapshot()
	js := snap.JSON()

	var decoded Snapshot
	if err := snapshotJSON.UnmarshalFromString(js, &decoded); err != nil {
		t.Fatalf("failed to unmarshal snapshot: %v", err)
	}
	if len(decoded.Squads) != len(snap.Squads) {
		t.Fatalf("round-trip squad count mismatch: %d vs %d", len(decoded.Squads), len(snap.Squads))
	}
	if decoded.Tick != snap.Tick {
		t.Fatalf("round-trip tick mismatch: %d vs %d", decoded.Tick, snap.Tick)
	}
}

func TestOrderNoOpOnUnknownID(t *testing.T) {
	w := NewWorld()
	w.OrderMove(9999, 1, 1)   // must not panic
	w.DamageDestructible(9999, 10) // must not panic
}

// A squad that has never taken damage must not read as RecentlyDamaged just
// because it is young: LastDamageTick's zero value must not be confused with
// "damaged at tick zero".
func TestActivityFlagsNotRecentlyDamagedWhenNeverHit(t *testing.T) {
	w := NewWorld()
	w.SpawnSquad(0, Blue, 0, 0)
	for i := 0; i < 5; i++ {
		w.Step(0.1)
	}
	s := w.squadByID[0]
	if s.Activity.RecentlyDamaged {
		t.Fatal("expected a never-damaged squad not to read as RecentlyDamaged")
	}
}

func TestActivityFlagsRecentlyDamagedAfterHit(t *testing.T) {
	w := NewWorld()
	w.SpawnSquad(0, Blue, 0, 0)
	w.SpawnSquad(1, Red, 5, 0)
	for i := 0; i < 10; i++ {
		w.Step(0.1)
	}
	foundDamaged := false
	for _, s := range w.Squads() {
		if s.Activity.HasBeenDamaged {
			foundDamaged = true
			if !s.Activity.RecentlyDamaged {
				t.Fatalf("squad %d was damaged this window but RecentlyDamaged is false", s.ID)
			}
		}
	}
	if !foundDamaged {
		t.Fatal("expected at least one squad to have taken damage")
	}
}

// Combat should populate per-(sector, faction) incoming stats, not just the
// friendly-count aggregate.
func TestSectorStatsPopulatedByCombat(t *testing.T) {
	w := NewWorld()
	w.SpawnSquad(0, Blue, 0, 0)
	w.SpawnSquad(1, Red, 5, 0)
	for i := 0; i < 10; i++ {
		w.Step(0.1)
	}
	var sawIncoming bool
	for _, s := range w.Squads() {
		stats := w.SectorStatsFor(s.Sector, s.Faction)
		if stats.IncomingDamage > 0 || stats.EnemyFireSources > 0 {
			sawIncoming = true
		}
	}
	if !sawIncoming {
		t.Fatal("expected combat to populate IncomingDamage/EnemyFireSources on some sector")
	}
}

// A destructible's cover should reduce damage dealt to a target standing
// within its radius, relative to the same fight with no destructible present.
func TestDestructibleCoverReducesDamage(t *testing.T) {
	withoutCover := NewWorld()
	withoutCover.SpawnSquad(0, Blue, 0, 0)
	withoutCover.SpawnSquad(1, Red, 10, 0)
	for i := 0; i < 10; i++ {
		withoutCover.Step(0.1)
	}
	baseline := withoutCover.squadByID[1].Health.Current

	withCover := NewWorld()
	withCover.SpawnSquad(0, Blue, 0, 0)
	withCover.SpawnSquad(1, Red, 10, 0)
	withCover.addDestructible(NewBuilding(100, 10, 0))
	for i := 0; i < 10; i++ {
		withCover.Step(0.1)
	}
	covered := withCover.squadByID[1].Health.Current

	if covered <= baseline {
		t.Fatalf("expected destructible cover to reduce damage taken: baseline health=%v, covered health=%v", baseline, covered)
	}
}

// Initial terrain generation must be deterministic given the same seed.
func TestTerrainGenerationDeterministic(t *testing.T) {
	a, err := NewWorldWithConfig(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewWorldWithConfig(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if a.TerrainSnapshotJSON() != b.TerrainSnapshotJSON() {
		t.Fatal("expected identical terrain snapshots for the same seed")
	}
}
