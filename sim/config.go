// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

// RatePreset is a convenience projection onto Config.FixedTimestep.
type RatePreset int

const (
	Normal30Hz RatePreset = iota
	Performance20Hz
)

// FixedTimestep returns the fixed delta-time, in seconds, for the preset.
func (r RatePreset) FixedTimestep() float32 {
	switch r {
	case Performance20Hz:
		return 1.0 / 20.0
	default:
		return 1.0 / 30.0
	}
}

// Config holds every simulation tunable. There is no hidden module-level
// state: everything the scheduler and systems read lives here, set once at
// World construction.
type Config struct {
	FixedTimestep      float32
	SectorSize         float32
	LODHighDistance    float32
	LODMediumDistance  float32
	DamageMemoryTicks  uint64
	LODReferencePoint  Vector2
	SpatialCellSize    float32

	// TerrainSeed drives the deterministic Perlin placement of initial
	// forest/rough terrain features (sim/terrain/noise). The same seed
	// always paints the same terrain grid.
	TerrainSeed int64
}

// DefaultConfig returns the engine's default configuration.
func DefaultConfig() Config {
	return Config{
		FixedTimestep:     Normal30Hz.FixedTimestep(),
		SectorSize:        40,
		LODHighDistance:   100,
		LODMediumDistance: 200,
		DamageMemoryTicks: 60,
		LODReferencePoint: Vector2{X: 0, Y: 0},
		SpatialCellSize:   20,
		TerrainSeed:       1,
	}
}

// Validate checks the invariants NewWorldWithConfig must reject at
// construction.
func (c Config) Validate() error {
	if c.FixedTimestep <= 0 || c.SpatialCellSize <= 0 || c.SectorSize <= 0 {
		return ErrInvalidConfig
	}
	return nil
}
