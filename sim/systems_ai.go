// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

// updateThreatAwareness refreshes each AI squad's ThreatAwareness. The prior
// awareness is cleared every tick (time_since_fire excepted, which keeps
// accumulating); it is only recomputed on the squad's LOD cadence, so an
// unscheduled tick leaves a squad with no known threat until its next
// scheduled update.
func (w *World) updateThreatAwareness(dt float32) {
	for _, s := range w.squads {
		if s.AI == nil || !s.Alive() {
			continue
		}
		lodInterval := float32(s.LOD.Interval())
		timeSinceFire := s.AI.Threat.TimeSinceFire + lodInterval*dt
		s.AI.Threat = ThreatAwareness{TimeSinceFire: timeSinceFire}

		if !s.LOD.ShouldUpdate(w.tick) {
			continue
		}

		fireRange := s.Stats.FireRange
		enemies := w.grid.QueryEnemies(s.Position.X, s.Position.Y, 2*fireRange, uint8(s.Faction))
		if len(enemies) == 0 {
			continue
		}

		nearest := enemies[0]
		nearestPos := Vector2{X: nearest.X, Y: nearest.Y}
		nearestDist := s.Position.Distance(nearestPos)

		var inRange uint32
		rangeThreshold := 1.5 * fireRange
		for _, e := range enemies {
			d := s.Position.Distance(Vector2{X: e.X, Y: e.Y})
			if d <= rangeThreshold {
				inRange++
			}
		}

		var threatLevel float32
		if inRange > 0 {
			var rangeFactor float32
			switch {
			case nearestDist < 0.5*fireRange:
				rangeFactor = 1.0
			case nearestDist < fireRange:
				rangeFactor = 0.7
			default:
				rangeFactor = 0.3
			}
			countFactor := float32(inRange) / 3
			if countFactor > 1 {
				countFactor = 1
			}
			threatLevel = 0.6*rangeFactor + 0.4*countFactor
		}

		s.AI.Threat.HasNearestEnemy = true
		s.AI.Threat.NearestEnemyPos = nearestPos
		s.AI.Threat.NearestEnemyDist = nearestDist
		s.AI.Threat.EnemiesInRange = inRange
		s.AI.Threat.ThreatLevel = threatLevel
	}
}

// updateNearbyFriendlies refreshes each AI squad's NearbyFriendlies: the
// center of mass and mean velocity of same-faction squads within flocking
// range, excluding self.
func (w *World) updateNearbyFriendlies() {
	for _, s := range w.squads {
		if s.AI == nil || !s.Alive() {
			continue
		}
		radius := s.AI.Flocking.NeighborRadius
		matches := w.grid.QueryFaction(s.Position.X, s.Position.Y, radius, uint8(s.Faction))

		var sumPos, sumVel Vector2
		var count int
		for _, m := range matches {
			if m.ID == s.ID {
				continue
			}
			other, ok := w.squadByID[m.ID]
			if !ok {
				continue
			}
			sumPos = sumPos.Add(other.Position)
			sumVel = sumVel.Add(other.Velocity)
			count++
		}

		if count == 0 {
			s.AI.Friendly = NearbyFriendlies{}
			continue
		}
		s.AI.Friendly = NearbyFriendlies{
			HasAny:       true,
			CenterOfMass: sumPos.Div(float32(count)),
			MeanVelocity: sumVel.Div(float32(count)),
		}
	}
}
