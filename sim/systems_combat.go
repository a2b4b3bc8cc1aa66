// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import (
	"runtime"
	"sort"
	"sync"
)

const (
	baseHitChance       = 0.15
	damagePerHit        = 8.0
	suppressionPerHit   = 0.2
	rangeFalloffStart   = 0.5
	maxCoverReduction   = 0.7
)

// combatIntent is one attacker's read-only gather-phase output: the damage
// and suppression it would deal to its chosen target this tick. Intents from
// every worker are merged by sorting on (targetID, sourceID) before summing,
// so the accumulated float32 total is independent of how attackers were
// partitioned across goroutines.
type combatIntent struct {
	targetID    uint32
	sourceID    uint32
	damage      float32
	suppression float32
}

// runCombat executes the two-phase combat pattern: a parallel, read-only
// gather over attackers, followed by a sequential, deterministic apply.
func (w *World) runCombat(dt float32) {
	intents := w.gatherCombat(dt)
	w.applyCombat(intents)
}

func (w *World) gatherCombat(dt float32) []combatIntent {
	cover := w.coverProvider()

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > len(w.squads) {
		workers = 1
		if len(w.squads) > 0 {
			workers = len(w.squads)
		}
	}
	if workers == 0 {
		return nil
	}
	w.recorder.SetCombatGatherWorkers(workers)

	chunks := make([][]combatIntent, workers)
	var wg sync.WaitGroup
	n := len(w.squads)
	chunkSize := (n + workers - 1) / workers

	for wi := 0; wi < workers; wi++ {
		start := wi * chunkSize
		end := start + chunkSize
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(idx, start, end int) {
			defer wg.Done()
			var local []combatIntent
			for i := start; i < end; i++ {
				if intent, ok := w.gatherAttacker(w.squads[i], dt, cover); ok {
					local = append(local, intent...)
				}
			}
			chunks[idx] = local
		}(wi, start, end)
	}
	wg.Wait()

	var all []combatIntent
	for _, c := range chunks {
		all = append(all, c...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].targetID != all[j].targetID {
			return all[i].targetID < all[j].targetID
		}
		return all[i].sourceID < all[j].sourceID
	})
	return all
}

// gatherAttacker computes the zero or one combat intents an attacker
// produces this tick. It reads only attacker, target, terrain, and
// destructible state (the last two through cover); it writes nothing, so it
// is safe to call concurrently across attackers.
func (w *World) gatherAttacker(attacker *Squad, dt float32, cover CoverProvider) ([]combatIntent, bool) {
	if !attacker.Alive() || attacker.Pinned() || attacker.Morale < 0.2 {
		return nil, false
	}
	if !attacker.LOD.ShouldUpdate(w.tick) {
		return nil, false
	}

	fireRange := attacker.Stats.FireRange
	enemies := w.grid.QueryEnemies(attacker.Position.X, attacker.Position.Y, fireRange, uint8(attacker.Faction))
	if len(enemies) == 0 {
		return nil, false
	}
	target := enemies[0]
	targetCover := cover.CoverAt(target.X, target.Y)
	dist := attacker.Position.Distance(Vector2{X: target.X, Y: target.Y})

	lodMult := float32(attacker.LOD.Interval())

	var rangeFactor float32
	start := rangeFalloffStart * fireRange
	if dist <= start {
		rangeFactor = 1.0
	} else {
		rangeFactor = 1 - (dist-start)/(fireRange-start)
		if rangeFactor < 0 {
			rangeFactor = 0
		}
	}

	suppressionPenalty := float32(1) - minf(0.5*attacker.Suppression, 0.8)
	moraleFactor := 0.5 + 0.5*attacker.Morale
	effectiveAccuracy := attacker.Stats.BaseAccuracy * rangeFactor * suppressionPenalty * moraleFactor

	shots := float32(attacker.Stats.Size) * dt * 2 * lodMult
	hits := shots * effectiveAccuracy * baseHitChance
	damage := hits * damagePerHit * (1 - targetCover*maxCoverReduction)
	suppressionDelta := hits * suppressionPerHit * (1 - targetCover*0.3)

	return []combatIntent{{
		targetID:    target.ID,
		sourceID:    attacker.ID,
		damage:      damage,
		suppression: suppressionDelta,
	}}, true
}

// applyCombat sequentially folds the sorted intent list into squad state:
// health is reduced, suppression added, activity flags and is-firing status
// updated. This phase is never parallelized.
func (w *World) applyCombat(intents []combatIntent) {
	damage := make(map[uint32]float32, len(intents))
	suppression := make(map[uint32]float32, len(intents))
	fired := make(map[uint32]bool, len(intents))
	fireSources := make(map[uint32]uint32, len(intents))

	for _, intent := range intents {
		damage[intent.targetID] += intent.damage
		suppression[intent.targetID] += intent.suppression
		fired[intent.sourceID] = true
		fireSources[intent.targetID]++
	}

	for _, s := range w.squads {
		s.IsFiring = fired[s.ID]
		if fired[s.ID] && s.AI != nil {
			s.AI.Threat.TimeSinceFire = 0
		}

		d, hasDamage := damage[s.ID]
		sup, hasSuppression := suppression[s.ID]
		if !hasDamage && !hasSuppression {
			continue
		}
		if hasDamage && d != 0 {
			s.Health.ApplyDamage(d)
			s.Activity.RecentlyDamaged = true
			s.Activity.HasBeenDamaged = true
			s.Activity.LastDamageTick = w.tick
			if s.AI != nil {
				s.AI.Threat.TimeSinceFire = 0
			}
		}
		s.Suppression += sup

		key := sectorKey{SectorID: s.Sector, faction: s.Faction}
		stats := w.sectorStats[key]
		if stats == nil {
			stats = &SectorStats{}
			w.sectorStats[key] = stats
		}
		stats.IncomingDamage += d
		stats.IncomingSuppression += sup
		stats.EnemyFireSources += fireSources[s.ID]
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
