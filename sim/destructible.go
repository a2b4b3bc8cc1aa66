// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

// DestructibleType tags what kind of static object a Destructible models.
// Modelled as a tagged variant rather than per-type structs or classes.
type DestructibleType uint8

const (
	Tree DestructibleType = iota
	Building
	Wall
	Vehicle
)

func (t DestructibleType) String() string {
	switch t {
	case Building:
		return "Building"
	case Wall:
		return "Wall"
	case Vehicle:
		return "Vehicle"
	default:
		return "Tree"
	}
}

// DestructibleState is derived purely from health by DestructionState.
type DestructibleState uint8

const (
	Intact DestructibleState = iota
	Damaged
	Destroyed
)

func (s DestructibleState) String() string {
	switch s {
	case Damaged:
		return "Damaged"
	case Destroyed:
		return "Destroyed"
	default:
		return "Intact"
	}
}

// CoverProfile gives the cover value a destructible provides to squads near
// it, keyed by its own current state, plus the radius over which it applies.
type CoverProfile struct {
	IntactCover   float32
	DamagedCover  float32
	DestroyedCover float32
	Radius        float32
}

func (p CoverProfile) CoverFor(state DestructibleState) float32 {
	switch state {
	case Damaged:
		return p.DamagedCover
	case Destroyed:
		return p.DestroyedCover
	default:
		return p.IntactCover
	}
}

// destructionThreshold is the health fraction at or below which a destructible is
// Damaged rather than Intact (default 0.5 * max, per spec).
const destructionThreshold = 0.5

// Destructible is a static world object that absorbs damage and transitions
// among Intact/Damaged/Destroyed, providing cover according to its state.
type Destructible struct {
	ID       uint32
	Position Vector2
	Type     DestructibleType
	State    DestructibleState
	Health   Health
	Cover    CoverProfile
}

// DestructionState recomputes d.State from d.Health, per the fixed
// thresholds: Destroyed (hp <= 0) beats Damaged (hp <= threshold*max) beats
// Intact.
func (d *Destructible) DestructionState() {
	switch {
	case d.Health.Current <= 0:
		d.State = Destroyed
	case d.Health.Current <= destructionThreshold*d.Health.Max:
		d.State = Damaged
	default:
		d.State = Intact
	}
}

// NewTree constructs a tree destructible at (x, y) with spec-default health.
func NewTree(id uint32, x, y float32) *Destructible {
	return &Destructible{
		ID:       id,
		Position: Vector2{X: x, Y: y},
		Type:     Tree,
		Health:   Health{Current: 30, Max: 30},
		Cover:    CoverProfile{IntactCover: 0.3, DamagedCover: 0.15, DestroyedCover: 0, Radius: 4},
	}
}

// NewBuilding constructs a building destructible at (x, y) with spec-default
// health.
func NewBuilding(id uint32, x, y float32) *Destructible {
	return &Destructible{
		ID:       id,
		Position: Vector2{X: x, Y: y},
		Type:     Building,
		Health:   Health{Current: 150, Max: 150},
		Cover:    CoverProfile{IntactCover: 0.7, DamagedCover: 0.4, DestroyedCover: 0.1, Radius: 8},
	}
}

// NewWall constructs a wall destructible at (x, y).
func NewWall(id uint32, x, y float32) *Destructible {
	return &Destructible{
		ID:       id,
		Position: Vector2{X: x, Y: y},
		Type:     Wall,
		Health:   Health{Current: 80, Max: 80},
		Cover:    CoverProfile{IntactCover: 0.8, DamagedCover: 0.5, DestroyedCover: 0.1, Radius: 3},
	}
}

// NewVehicle constructs a wrecked/disabled vehicle destructible at (x, y).
func NewVehicle(id uint32, x, y float32) *Destructible {
	return &Destructible{
		ID:       id,
		Position: Vector2{X: x, Y: y},
		Type:     Vehicle,
		Health:   Health{Current: 60, Max: 60},
		Cover:    CoverProfile{IntactCover: 0.5, DamagedCover: 0.3, DestroyedCover: 0.2, Radius: 5},
	}
}
