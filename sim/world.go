// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"time"

	"github.com/chewxy/math32"

	"tacticalsim/sim/spatial"
	"tacticalsim/sim/terrain"
	"tacticalsim/sim/terrain/noise"
)

// TerrainDamageEvent is a pending terrain-deformation impact queued by
// SpawnCrater/SpawnBarrage for the environment system (C10) to apply to
// nearby destructibles on the next fixed update.
type TerrainDamageEvent struct {
	X, Y, Radius, Depth float32
}

// World owns every squad, destructible, and the terrain/spatial grids. It is
// the sole owner of simulation state: every other actor (snapshot consumer,
// order issuer, spawner) interacts with it only through its exported
// methods, per the concurrency model's shared-resource policy.
type World struct {
	config Config

	tick        uint64
	time        float32
	accumulator float32

	squads     []*Squad
	squadByID  map[uint32]*Squad

	destructibles    []*Destructible
	destructibleByID map[uint32]*Destructible

	terrain *terrain.Grid
	grid    *spatial.Grid

	sectorStats map[sectorKey]*SectorStats

	pendingTerrainEvents []TerrainDamageEvent
	tickTerrainDamage    []TerrainDamageEvent
	newCraters           []terrain.CraterRecord
	terrainDirty         bool

	recorder Recorder
}

// NewWorld constructs a World with DefaultConfig and a 200x200, cell-size-2.0
// terrain grid centered on the origin, seeded with deterministic initial
// terrain features.
func NewWorld() *World {
	w, _ := NewWorldWithConfig(DefaultConfig())
	return w
}

// NewWorldWithConfig constructs a World with cfg, rejecting invalid
// configuration at construction time.
func NewWorldWithConfig(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	terrainGrid := terrain.NewGrid(200, 200, 2.0)
	noise.New(cfg.TerrainSeed).Paint(terrainGrid)
	return &World{
		config:           cfg,
		squadByID:        make(map[uint32]*Squad),
		destructibleByID: make(map[uint32]*Destructible),
		terrain:          terrainGrid,
		grid:             spatial.NewGrid(cfg.SpatialCellSize),
		sectorStats:      make(map[sectorKey]*SectorStats),
		recorder:         nopRecorder{},
	}, nil
}

// SetRecorder installs a metrics Recorder. Passing nil restores the no-op
// recorder.
func (w *World) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	w.recorder = r
}

// NewDefaultTestWorld builds the canonical scenario used by the engine's own
// tests and end-to-end checks: 6 Blue squads on the left (non-AI), 6 Red
// squads on the right (AI-controlled), a ring of trees, and a few buildings.
func NewDefaultTestWorld() *World {
	w := NewWorld()

	for i := 0; i < 6; i++ {
		id := uint32(i)
		w.addSquad(NewSquad(id, Blue, -50, float32(i-3)*10, nil))
	}
	for i := 0; i < 6; i++ {
		id := uint32(100 + i)
		w.addSquad(NewSquad(id, Red, 50, float32(i-3)*10, NewAIState()))
	}

	for i := 0; i < 4; i++ {
		angle := float32(i) * (math32.Pi / 2)
		dist := float32(30)
		x := dist * cosf(angle)
		y := dist * sinf(angle)
		w.addDestructible(NewTree(uint32(1000+i), x, y))
	}
	w.addDestructible(NewBuilding(2000, 0, 40))
	w.addDestructible(NewBuilding(2001, 0, -40))

	return w
}

func (w *World) addSquad(s *Squad) {
	w.squads = append(w.squads, s)
	w.squadByID[s.ID] = s
}

func (w *World) addDestructible(d *Destructible) {
	w.destructibles = append(w.destructibles, d)
	w.destructibleByID[d.ID] = d
}

// CurrentTick returns the number of fixed updates executed so far.
func (w *World) CurrentTick() uint64 { return w.tick }

// CurrentTime returns the accumulated simulation time in seconds.
func (w *World) CurrentTime() float32 { return w.time }

// Step accumulates dt and runs zero or more fixed updates, then ages terrain
// craters by the raw dt regardless of how many fixed updates ran.
func (w *World) Step(dt float32) {
	w.accumulator += dt
	fixed := w.config.FixedTimestep
	for w.accumulator >= fixed {
		start := time.Now()
		w.fixedUpdate(fixed)
		w.recorder.ObserveTickDuration(time.Since(start).Seconds())
		w.accumulator -= fixed
	}
	w.terrain.Update(dt)
}

// fixedUpdate runs exactly one tick's worth of systems, in the five
// dependency-ordered groups of the scheduler.
func (w *World) fixedUpdate(dt float32) {
	w.tick++
	w.time += dt

	// Group 1: spatial rebuild, LOD/sector/activity assignment.
	w.rebuildSpatialGrid()
	w.assignLOD()
	w.assignSectors()
	w.updateActivityFlags()
	w.rebuildSectorStats()

	// Group 2: AI awareness. Threat must precede behavior state (group 3).
	w.updateThreatAwareness(dt)
	w.updateNearbyFriendlies()

	// Group 3: AI decisions — behavior state, order rewrite, flocking.
	w.updateBehaviorStateAndOrders(dt)
	w.computeFlockingSteering()

	// Group 4: core simulation, chained for correctness.
	w.ordersToVelocity()
	w.integrateMovement(dt)
	w.runCombat(dt)
	w.decaySuppression(dt)
	w.updateMorale(dt)
	w.applyRout()

	// Group 5: environment, chained.
	w.applyTerrainDamageToDestructibles()
	w.updateDestructionStates()

	w.recorder.SetSquadsAlive(w.aliveCount())
}

func (w *World) aliveCount() int {
	n := 0
	for _, s := range w.squads {
		if s.Alive() {
			n++
		}
	}
	return n
}

func (w *World) rebuildSpatialGrid() {
	entries := make([]spatial.Entry, 0, len(w.squads))
	for _, s := range w.squads {
		if !s.Alive() {
			continue
		}
		entries = append(entries, spatial.Entry{
			ID:      s.ID,
			X:       s.Position.X,
			Y:       s.Position.Y,
			Faction: uint8(s.Faction),
		})
	}
	w.grid.Rebuild(entries)
}

// --- Host command surface ---

// OrderMove sets a squad's order to MoveTo. No-op if id is unknown.
func (w *World) OrderMove(id uint32, x, y float32) {
	if s, ok := w.squadByID[id]; ok {
		s.Order = MoveToOrder(x, y)
	}
}

// OrderAttackMove sets a squad's order to AttackMove. No-op if id is unknown.
func (w *World) OrderAttackMove(id uint32, x, y float32) {
	if s, ok := w.squadByID[id]; ok {
		s.Order = AttackMoveOrder(x, y)
	}
}

// OrderHold sets a squad's order to Hold. No-op if id is unknown; a no-op
// also if the squad is already holding.
func (w *World) OrderHold(id uint32) {
	if s, ok := w.squadByID[id]; ok {
		s.Order = HoldOrder()
	}
}

// OrderRetreat sets a squad's order to Retreat. No-op if id is unknown.
func (w *World) OrderRetreat(id uint32) {
	if s, ok := w.squadByID[id]; ok {
		s.Order = RetreatOrder()
	}
}

// SpawnCrater deforms the terrain at (x, y) immediately and queues the
// impact for the next environment-system pass against nearby destructibles.
func (w *World) SpawnCrater(x, y, radius, depth float32) {
	w.terrain.ApplyCrater(x, y, radius, depth)
	w.pendingTerrainEvents = append(w.pendingTerrainEvents, TerrainDamageEvent{X: x, Y: y, Radius: radius, Depth: depth})
	w.newCraters = append(w.newCraters, w.terrain.Craters[len(w.terrain.Craters)-1])
	w.terrainDirty = true
}

// SpawnBarrage deterministically scatters count craters around (cx, cy),
// queuing each impact exactly as SpawnCrater would.
func (w *World) SpawnBarrage(cx, cy, spread float32, count int) {
	const craterRadius, craterDepth = 3.0, 1.5
	before := len(w.terrain.Craters)
	w.terrain.ApplyBarrage(cx, cy, spread, count, craterRadius, craterDepth)
	for _, c := range w.terrain.Craters[before:] {
		w.pendingTerrainEvents = append(w.pendingTerrainEvents, TerrainDamageEvent{X: c.X, Y: c.Y, Radius: c.Radius, Depth: c.Depth})
		w.newCraters = append(w.newCraters, c)
	}
	w.terrainDirty = true
}

// SpawnTree adds a tree destructible at (x, y).
func (w *World) SpawnTree(id uint32, x, y float32) { w.addDestructible(NewTree(id, x, y)) }

// SpawnBuilding adds a building destructible at (x, y).
func (w *World) SpawnBuilding(id uint32, x, y float32) { w.addDestructible(NewBuilding(id, x, y)) }

// DamageDestructible applies dmg to a destructible's health and updates its
// state. No-op if id is unknown.
func (w *World) DamageDestructible(id uint32, dmg float32) {
	if d, ok := w.destructibleByID[id]; ok {
		d.Health.ApplyDamage(dmg)
		d.DestructionState()
	}
}

// DestructibleCount returns the number of destructibles ever spawned
// (destroyed ones are kept, like dead squads).
func (w *World) DestructibleCount() int { return len(w.destructibles) }

// SpawnAISquad adds an AI-controlled squad at (x, y).
func (w *World) SpawnAISquad(id uint32, faction Faction, x, y float32) {
	w.addSquad(NewSquad(id, faction, x, y, NewAIState()))
}

// SpawnSquad adds a non-AI squad at (x, y).
func (w *World) SpawnSquad(id uint32, faction Faction, x, y float32) {
	w.addSquad(NewSquad(id, faction, x, y, nil))
}

// SpawnMassSquads spawns n AI-controlled squads of faction in a roughly
// square grid formation centered on (cx, cy) spanning spread world units,
// starting at startID and incrementing by one per squad.
func (w *World) SpawnMassSquads(faction Faction, cx, cy float32, n int, spread float32, startID uint32) {
	if n <= 0 {
		return
	}
	cols := int(math32.Ceil(math32.Sqrt(float32(n))))
	if cols < 1 {
		cols = 1
	}
	spacing := spread / float32(cols)
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols
		x := cx + (float32(col)-float32(cols)/2)*spacing
		y := cy + (float32(row)-float32(cols)/2)*spacing
		w.SpawnAISquad(startID+uint32(i), faction, x, y)
	}
}

// EnableAI installs the AI overlay on a squad that lacks one. No-op if id is
// unknown or the squad is already AI-controlled.
func (w *World) EnableAI(id uint32) {
	if s, ok := w.squadByID[id]; ok && s.AI == nil {
		s.AI = NewAIState()
	}
}

// DisableAI removes the AI overlay from a squad. No-op if id is unknown.
func (w *World) DisableAI(id uint32) {
	if s, ok := w.squadByID[id]; ok {
		s.AI = nil
	}
}

// GetMovementMultiplier returns the terrain movement multiplier at (x, y).
func (w *World) GetMovementMultiplier(x, y float32) float32 {
	return w.terrain.MovementMultiplierAt(x, y)
}

// GetCoverAt returns the terrain cover value at (x, y).
func (w *World) GetCoverAt(x, y float32) float32 {
	return w.terrain.CoverAt(x, y)
}

// GetHeightAt returns the terrain height at (x, y).
func (w *World) GetHeightAt(x, y float32) float32 {
	return w.terrain.HeightAt(x, y)
}

// Terrain exposes the underlying terrain grid for read access (procedural
// feature painting, direct inspection in tests).
func (w *World) Terrain() *terrain.Grid { return w.terrain }

// SpatialGrid exposes the current tick's rebuilt spatial grid.
func (w *World) SpatialGrid() *spatial.Grid { return w.grid }

// Squads exposes the live squad slice in spawn order. Callers must not
// mutate the slice itself; mutating through the command surface is the
// supported path.
func (w *World) Squads() []*Squad { return w.squads }

// Destructibles exposes the live destructible slice in spawn order.
func (w *World) Destructibles() []*Destructible { return w.destructibles }
