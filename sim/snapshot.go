// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"tacticalsim/sim/terrain"
)

// snapshotJSON: compact output, stable key ordering, no HTML escaping of
// embedded punctuation in order strings.
var snapshotJSON = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// SquadSnapshot is the serializable view of one squad.
type SquadSnapshot struct {
	ID          uint32  `json:"id"`
	Faction     string  `json:"faction"`
	X           float32 `json:"x"`
	Y           float32 `json:"y"`
	VX          float32 `json:"vx"`
	VY          float32 `json:"vy"`
	Health      float32 `json:"health"`
	HealthMax   float32 `json:"health_max"`
	Size        uint32  `json:"size"`
	Morale      float32 `json:"morale"`
	Suppression float32 `json:"suppression"`
	Order       string  `json:"order"`
}

// DestructibleSnapshot is the serializable view of one destructible.
type DestructibleSnapshot struct {
	ID        uint32  `json:"id"`
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	Type      string  `json:"dtype"`
	State     string  `json:"state"`
	Health    float32 `json:"health"`
	HealthMax float32 `json:"health_max"`
}

// TerrainDamageSnapshot is one terrain-deformation event reported this tick.
type TerrainDamageSnapshot struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Radius float32 `json:"radius"`
	Depth  float32 `json:"depth"`
}

// Snapshot is the immutable, serializable view of world state handed to a
// host for rendering.
type Snapshot struct {
	Tick          uint64                  `json:"tick"`
	Time          float32                 `json:"time"`
	Squads        []SquadSnapshot         `json:"squads"`
	Destructibles []DestructibleSnapshot  `json:"destructibles"`
	TerrainDamage []TerrainDamageSnapshot `json:"terrain_damage"`
	NewCraters    []terrain.CraterRecord  `json:"new_craters"`
	TerrainDirty  bool                    `json:"terrain_dirty"`

	// DestructionEvents lists the ids of every destructible currently in
	// the Damaged or Destroyed state, for renderer VFX triggers. It is not
	// limited to state changes since the previous snapshot: a destructible
	// stays in the list on every snapshot once it is damaged.
	DestructionEvents []uint32 `json:"destruction_events"`
}

func orderString(o Order) string {
	switch o.Kind {
	case OrderMoveTo:
		return fmt.Sprintf("MoveTo(%.1f,%.1f)", o.X, o.Y)
	case OrderAttackMove:
		return fmt.Sprintf("AttackMove(%.1f,%.1f)", o.X, o.Y)
	case OrderRetreat:
		return "Retreat"
	default:
		return "Hold"
	}
}

// Snapshot builds a Snapshot of the current world state, in spawn order, and
// clears the new-craters and terrain-dirty side state. This is the only
// World method that clears that state; the snapshot value itself is a pure
// function of everything else.
func (w *World) Snapshot() Snapshot {
	squads := make([]SquadSnapshot, len(w.squads))
	for i, s := range w.squads {
		squads[i] = SquadSnapshot{
			ID:          s.ID,
			Faction:     s.Faction.String(),
			X:           s.Position.X,
			Y:           s.Position.Y,
			VX:          s.Velocity.X,
			VY:          s.Velocity.Y,
			Health:      s.Health.Current,
			HealthMax:   s.Health.Max,
			Size:        s.Stats.Size,
			Morale:      s.Morale,
			Suppression: s.Suppression,
			Order:       orderString(s.Order),
		}
	}

	destructibles := make([]DestructibleSnapshot, len(w.destructibles))
	var destructionEvents []uint32
	for i, d := range w.destructibles {
		destructibles[i] = DestructibleSnapshot{
			ID:        d.ID,
			X:         d.Position.X,
			Y:         d.Position.Y,
			Type:      d.Type.String(),
			State:     d.State.String(),
			Health:    d.Health.Current,
			HealthMax: d.Health.Max,
		}
		if d.State == Damaged || d.State == Destroyed {
			destructionEvents = append(destructionEvents, d.ID)
		}
	}

	terrainDamage := make([]TerrainDamageSnapshot, len(w.tickTerrainDamage))
	for i, ev := range w.tickTerrainDamage {
		terrainDamage[i] = TerrainDamageSnapshot{X: ev.X, Y: ev.Y, Radius: ev.Radius, Depth: ev.Depth}
	}

	newCraters := make([]terrain.CraterRecord, len(w.newCraters))
	copy(newCraters, w.newCraters)

	snap := Snapshot{
		Tick:              w.tick,
		Time:              w.time,
		Squads:            squads,
		Destructibles:     destructibles,
		TerrainDamage:     terrainDamage,
		NewCraters:        newCraters,
		TerrainDirty:      w.terrainDirty,
		DestructionEvents: destructionEvents,
	}

	w.newCraters = w.newCraters[:0]
	w.terrainDirty = false

	return snap
}

// JSON serializes s. A marshal failure (which should not happen for this
// value shape) yields "{}" rather than propagating an error, per the
// SerializationFailure contract: the Snapshot value itself never fails to
// construct.
func (s Snapshot) JSON() string {
	buf, err := snapshotJSON.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(buf)
}

// SnapshotJSON is a convenience combining Snapshot and JSON.
func (w *World) SnapshotJSON() string {
	return w.Snapshot().JSON()
}

// TerrainSnapshotJSON returns the terrain grid's structured snapshot as
// JSON.
func (w *World) TerrainSnapshotJSON() string {
	return w.terrain.Snapshot().JSON()
}

// squadFieldsPerEntry is the flat binary form's per-squad field count.
const squadFieldsPerEntry = 14

// BinarySnapshot encodes squad state into the flat float32 form documented
// for hot-path hosts: buf[0] is the squad count, and each squad occupies 14
// contiguous float32 slots starting at 1+i*14, in spawn order.
func (w *World) BinarySnapshot() []float32 {
	buf := make([]float32, 1+squadFieldsPerEntry*len(w.squads))
	buf[0] = float32(len(w.squads))

	for i, s := range w.squads {
		off := 1 + i*squadFieldsPerEntry
		buf[off+0] = float32(s.ID)
		buf[off+1] = s.Position.X
		buf[off+2] = s.Position.Y
		buf[off+3] = s.Velocity.X
		buf[off+4] = s.Velocity.Y
		buf[off+5] = float32(s.Faction)
		buf[off+6] = float32(s.Stats.Size)
		buf[off+7] = s.Health.Current
		buf[off+8] = s.Health.Max
		buf[off+9] = s.Morale
		buf[off+10] = s.Suppression
		if s.Alive() {
			buf[off+11] = 1
		}
		if s.Order.Kind == OrderRetreat {
			buf[off+12] = 1
		}
		buf[off+13] = float32(s.Order.Kind)
	}
	return buf
}
