// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

// BehaviorState is a derived, instantaneous label summarizing what an
// AI-controlled squad is doing this tick. It carries no history: recomputing
// it from the same inputs always yields the same state.
type BehaviorState uint8

const (
	Idle BehaviorState = iota
	Advancing
	Engaging
	TakingCover
	Flanking
	Retreating
	Regrouping
)

func (b BehaviorState) String() string {
	switch b {
	case Advancing:
		return "Advancing"
	case Engaging:
		return "Engaging"
	case TakingCover:
		return "TakingCover"
	case Flanking:
		return "Flanking"
	case Retreating:
		return "Retreating"
	case Regrouping:
		return "Regrouping"
	default:
		return "Idle"
	}
}

// ThreatAwareness is the per-tick snapshot of nearby hostile pressure,
// recomputed by the threat-awareness system on the squad's LOD cadence.
type ThreatAwareness struct {
	HasNearestEnemy  bool
	NearestEnemyPos  Vector2
	NearestEnemyDist float32
	EnemiesInRange   uint32
	ThreatLevel      float32
	TimeSinceFire    float32
}

// NearbyFriendlies summarizes same-faction squads within flocking range.
type NearbyFriendlies struct {
	HasAny       bool
	CenterOfMass Vector2
	MeanVelocity Vector2
}

// FlockingProfile carries the scalar weights combined into one steering
// vector. Every AI squad is spawned with these defaults; the spawn
// functions take no per-squad override.
type FlockingProfile struct {
	CohesionWeight    float32
	SeparationWeight  float32
	AlignmentWeight   float32
	GoalWeight        float32
	ThreatAvoidWeight float32
	NeighborRadius    float32
	SeparationRadius  float32
}

// DefaultFlockingProfile returns the default steering weights.
func DefaultFlockingProfile() FlockingProfile {
	return FlockingProfile{
		CohesionWeight:    0.3,
		SeparationWeight:  0.5,
		AlignmentWeight:   0.2,
		GoalWeight:        1.0,
		ThreatAvoidWeight: 0.8,
		NeighborRadius:    30,
		SeparationRadius:  8,
	}
}

// AIState is the optional overlay that marks a squad as AI-controlled. A
// squad carries AI capability iff this pointer is non-nil — composition by
// capability set rather than an inheritance hierarchy.
type AIState struct {
	Behavior BehaviorState
	Threat   ThreatAwareness
	Friendly NearbyFriendlies
	Flocking FlockingProfile

	// Tactical preferences, constant per squad unless a host changes them.
	Aggression       float32
	CoverSeeking     float32
	FlankingTendency float32
}

// NewAIState returns an AI overlay with spec-default flocking weights and
// moderate tactical preferences.
func NewAIState() *AIState {
	return &AIState{
		Flocking:         DefaultFlockingProfile(),
		Aggression:       0.6,
		CoverSeeking:     0.5,
		FlankingTendency: 0.4,
	}
}
