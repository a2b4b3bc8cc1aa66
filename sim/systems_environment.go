// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

// applyTerrainDamageToDestructibles drains the pending terrain-damage event
// queue (populated by SpawnCrater/SpawnBarrage since the last fixed update)
// and damages every destructible within 1.5x each event's radius by a
// squared falloff. Processed events move into tickTerrainDamage, which
// Snapshot reports without clearing; the next fixed update replaces it.
func (w *World) applyTerrainDamageToDestructibles() {
	for _, ev := range w.pendingTerrainEvents {
		reach := 1.5 * ev.Radius
		for _, d := range w.destructibles {
			dist := d.Position.Distance(Vector2{X: ev.X, Y: ev.Y})
			if dist > reach {
				continue
			}
			falloff := 1 - dist/reach
			damage := 20 * ev.Depth * falloff * falloff
			d.Health.ApplyDamage(damage)
		}
	}
	w.tickTerrainDamage = append(w.tickTerrainDamage[:0], w.pendingTerrainEvents...)
	w.pendingTerrainEvents = w.pendingTerrainEvents[:0]
}

// updateDestructionStates recomputes each destructible's Intact/Damaged/
// Destroyed state from its current health.
func (w *World) updateDestructionStates() {
	for _, d := range w.destructibles {
		d.DestructionState()
	}
}
