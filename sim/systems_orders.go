// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

// computeBehaviorState is a pure function of a squad's instantaneous
// awareness, morale, suppression, and order — no hidden history. Rules are
// evaluated in order; the first match wins.
func computeBehaviorState(s *Squad) BehaviorState {
	ai := s.AI
	switch {
	case s.Broken():
		return Retreating
	case s.Pinned():
		return TakingCover
	case ai.Threat.ThreatLevel > 0.7 && ai.Aggression < 0.5:
		return TakingCover
	case ai.Threat.TimeSinceFire < 2.0 && ai.CoverSeeking > 0.5 && s.Suppressed():
		return TakingCover
	case s.Order.Kind == OrderRetreat:
		return Retreating
	case ai.Threat.EnemiesInRange > 0:
		if ai.FlankingTendency > 0.6 && ai.Threat.EnemiesInRange <= 2 {
			return Flanking
		}
		return Engaging
	case s.Order.Kind == OrderMoveTo || s.Order.Kind == OrderAttackMove:
		return Advancing
	default:
		return Idle
	}
}

// updateBehaviorStateAndOrders recomputes every AI squad's behavior state and
// rewrites its order accordingly. Non-AI squads are untouched: order
// rewriting is an AI-only capability.
func (w *World) updateBehaviorStateAndOrders(dt float32) {
	for _, s := range w.squads {
		if s.AI == nil || !s.Alive() {
			continue
		}
		state := computeBehaviorState(s)
		s.AI.Behavior = state

		switch state {
		case Retreating:
			if s.AI.Threat.HasNearestEnemy {
				away := directionOrZero(s.AI.Threat.NearestEnemyPos, s.Position)
				target := s.Position.AddScaled(away, 40)
				s.Order = MoveToOrder(target.X, target.Y)
			}
		case Flanking:
			if s.AI.Threat.HasNearestEnemy {
				toward := directionOrZero(s.Position, s.AI.Threat.NearestEnemyPos)
				perp := toward.Rot90()
				target := s.Position.AddScaled(perp, 25).AddScaled(toward, 10)
				s.Order = AttackMoveOrder(target.X, target.Y)
			}
		case Regrouping:
			if s.AI.Friendly.HasAny {
				c := s.AI.Friendly.CenterOfMass
				s.Order = MoveToOrder(c.X, c.Y)
			}
		case Engaging:
			if s.AI.Aggression > 0.6 && s.AI.Threat.HasNearestEnemy {
				target := s.AI.Threat.NearestEnemyPos
				s.Order = AttackMoveOrder(target.X, target.Y)
			}
		}
	}
}

// computeFlockingSteering sets the velocity of every non-pinned, non-broken
// AI squad from its combined steering vector (goal + cohesion + alignment +
// separation + threat-avoidance). Pinned or broken AI squads get zero
// velocity. Non-AI squads are left for ordersToVelocity (C9.a) to handle.
func (w *World) computeFlockingSteering() {
	for _, s := range w.squads {
		if s.AI == nil || !s.Alive() {
			continue
		}
		if s.Pinned() || s.Broken() {
			s.Velocity = Vector2{}
			continue
		}

		profile := s.AI.Flocking
		var steering Vector2

		goal := w.steeringGoal(s)
		goalDist := s.Position.Distance(goal)
		if goalDist > 1 {
			steering = steering.Add(directionOrZero(s.Position, goal).Mul(profile.GoalWeight))
		}

		if s.AI.Friendly.HasAny {
			steering = steering.Add(directionOrZero(s.Position, s.AI.Friendly.CenterOfMass).Mul(profile.CohesionWeight))
		}

		if meanVel := s.AI.Friendly.MeanVelocity; meanVel.LengthSquared() > 1e-6 {
			steering = steering.Add(meanVel.Norm().Mul(profile.AlignmentWeight))
		}

		if sep := w.separationForce(s, profile.SeparationRadius); !sep.IsZero() {
			steering = steering.Add(sep.Mul(profile.SeparationWeight))
		}

		if s.AI.Threat.ThreatLevel > 0.3 && s.AI.Threat.HasNearestEnemy {
			away := directionOrZero(s.AI.Threat.NearestEnemyPos, s.Position)
			steering = steering.Add(away.Mul(s.AI.Threat.ThreatLevel * profile.ThreatAvoidWeight * 0.3))
		}

		rawMag := steering.Length()
		if rawMag < 0.1 && goalDist <= 1 {
			s.Velocity = Vector2{}
			continue
		}
		s.Velocity = steering.Norm().Mul(s.Stats.Speed)
	}
}

// steeringGoal resolves the flocking goal point for a squad's current order.
func (w *World) steeringGoal(s *Squad) Vector2 {
	switch s.Order.Kind {
	case OrderMoveTo, OrderAttackMove:
		return s.Order.Target()
	case OrderRetreat:
		if s.AI != nil && s.AI.Threat.HasNearestEnemy {
			away := directionOrZero(s.AI.Threat.NearestEnemyPos, s.Position)
			return s.Position.AddScaled(away, 50)
		}
		return s.Position
	default: // Hold
		return s.Position
	}
}

// separationForce sums (pos - other)/dist * (1 - dist/radius) over every
// spatial-grid neighbor of any faction within radius, averaged by count.
func (w *World) separationForce(s *Squad, radius float32) Vector2 {
	neighbors := w.grid.QueryRadius(s.Position.X, s.Position.Y, radius)
	var sum Vector2
	var count int
	for _, n := range neighbors {
		if n.ID == s.ID {
			continue
		}
		other := Vector2{X: n.X, Y: n.Y}
		dist := s.Position.Distance(other)
		if dist < 1e-6 {
			continue
		}
		away := directionOrZero(other, s.Position)
		sum = sum.Add(away.Mul(1 - dist/radius))
		count++
	}
	if count == 0 {
		return Vector2{}
	}
	return sum.Div(float32(count))
}
