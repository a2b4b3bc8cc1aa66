// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

// ordersToVelocity derives velocity from a squad's order (C9.a). AI squads
// are skipped: their velocity was already set by computeFlockingSteering,
// which folds their (possibly AI-rewritten) order into a full steering
// vector instead of the plain order->velocity mapping used here.
func (w *World) ordersToVelocity() {
	for _, s := range w.squads {
		if s.AI != nil || !s.Alive() {
			continue
		}
		if s.Pinned() || s.Broken() {
			s.Velocity = Vector2{}
			continue
		}
		switch s.Order.Kind {
		case OrderMoveTo:
			s.Velocity = velocityToward(s.Position, s.Order.Target(), s.Stats.Speed)
		case OrderAttackMove:
			s.Velocity = velocityToward(s.Position, s.Order.Target(), 0.6*s.Stats.Speed)
		default: // Hold, Retreat
			s.Velocity = Vector2{}
		}
	}
}

func velocityToward(from, to Vector2, speed float32) Vector2 {
	if from.Distance(to) < 1 {
		return Vector2{}
	}
	return directionOrZero(from, to).Mul(speed)
}

// integrateMovement advances position by velocity*dt*speedMult (C9.b).
// speedMult accounts for suppression/shaken penalties and the terrain
// movement multiplier at the squad's current position. Pinned or broken
// squads do not move.
func (w *World) integrateMovement(dt float32) {
	for _, s := range w.squads {
		if !s.Alive() || s.Pinned() || s.Broken() {
			continue
		}
		speedMult := float32(1.0)
		switch {
		case s.Suppressed():
			speedMult = 0.3
		case s.Shaken():
			speedMult = 0.6
		}
		speedMult *= w.terrain.MovementMultiplierAt(s.Position.X, s.Position.Y)
		s.Position = s.Position.AddScaled(s.Velocity, dt*speedMult)
	}
}

const suppressionDecayRate = 0.15

// decaySuppression decays every alive squad's suppression toward zero.
func (w *World) decaySuppression(dt float32) {
	for _, s := range w.squads {
		if !s.Alive() {
			continue
		}
		s.Suppression -= suppressionDecayRate * dt
		if s.Suppression < 0 {
			s.Suppression = 0
		}
	}
}

// updateMorale applies the per-tick morale adjustments: penalties for being
// pinned/suppressed/damaged, recovery driven by nearby same-faction cohesion,
// and a slower recovery path once broken but no longer suppressed.
func (w *World) updateMorale(dt float32) {
	for _, s := range w.squads {
		if !s.Alive() {
			continue
		}
		switch {
		case s.Pinned():
			s.Morale -= 0.10 * dt
		case s.Suppressed():
			s.Morale -= 0.05 * dt
		}

		healthFraction := s.Health.Fraction()
		if healthFraction < 0.75 {
			s.Morale -= (1 - healthFraction) * 0.002 * dt
		}
		if healthFraction < 0.25 {
			s.Morale -= 0.05 * dt
		}

		k := w.sameFactionCohesionCount(s)

		broken := s.Broken()
		if !s.Suppressed() && !broken {
			s.Morale += (0.02 + 0.01*float32(k)) * dt
		}
		if broken && !s.Suppressed() && healthFraction > 0.5 {
			s.Morale += 0.002 * dt
		}

		if s.Morale < 0 {
			s.Morale = 0
		}
		if s.Morale > 1 {
			s.Morale = 1
		}
	}
}

// sameFactionCohesionCount counts same-faction squads at a distance strictly
// between 0.1 and 20 from s, the cohesion bonus used by updateMorale.
func (w *World) sameFactionCohesionCount(s *Squad) int {
	matches := w.grid.QueryFaction(s.Position.X, s.Position.Y, 20, uint8(s.Faction))
	count := 0
	for _, m := range matches {
		if m.ID == s.ID {
			continue
		}
		d := s.Position.Distance(Vector2{X: m.X, Y: m.Y})
		if d > 0.1 && d < 20 {
			count++
		}
	}
	return count
}

// applyRout forces a broken squad's order to Retreat. Setting the order when
// it is already Retreat is a no-op in effect, satisfying the idempotence
// requirement.
func (w *World) applyRout() {
	for _, s := range w.squads {
		if !s.Alive() {
			continue
		}
		if s.Broken() {
			s.Order = RetreatOrder()
		}
	}
}
