// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

// assignLOD computes each squad's level-of-detail tier from squared distance
// to the config's reference point.
func (w *World) assignLOD() {
	ref := w.config.LODReferencePoint
	highSq := w.config.LODHighDistance * w.config.LODHighDistance
	medSq := w.config.LODMediumDistance * w.config.LODMediumDistance

	for _, s := range w.squads {
		distSq := s.Position.DistanceSquared(ref)
		switch {
		case distSq <= highSq:
			s.LOD = LODHigh
		case distSq <= medSq:
			s.LOD = LODMedium
		default:
			s.LOD = LODLow
		}
	}
}

// assignSectors tags each squad with its coarse sector id.
func (w *World) assignSectors() {
	for _, s := range w.squads {
		s.Sector = SectorOf(s.Position.X, s.Position.Y, w.config.SectorSize)
	}
}

// updateActivityFlags refreshes the cheap per-tick derived booleans used to
// skip idle squads in expensive systems.
func (w *World) updateActivityFlags() {
	for _, s := range w.squads {
		s.Activity.IsMoving = s.Velocity.Length() > 0.1
		s.Activity.IsSuppressed = s.Suppressed()
		s.Activity.RecentlyDamaged = s.Activity.HasBeenDamaged && (w.tick-s.Activity.LastDamageTick) < w.config.DamageMemoryTicks
	}
}

// rebuildSectorStats recomputes the per-(sector, faction) friendly-count
// aggregate from scratch. Incoming-damage/suppression/fire-source fields are
// populated by the combat apply phase later in the same tick.
func (w *World) rebuildSectorStats() {
	for k := range w.sectorStats {
		delete(w.sectorStats, k)
	}
	for _, s := range w.squads {
		if !s.Alive() {
			continue
		}
		key := sectorKey{SectorID: s.Sector, faction: s.Faction}
		stats := w.sectorStats[key]
		if stats == nil {
			stats = &SectorStats{}
			w.sectorStats[key] = stats
		}
		stats.FriendlyCount++
	}
}

// SectorStatsFor returns the aggregated combat stats for a (sector, faction)
// pair, or the zero value if no squad of that faction occupies the sector.
func (w *World) SectorStatsFor(sector SectorID, faction Faction) SectorStats {
	if s, ok := w.sectorStats[sectorKey{SectorID: sector, faction: faction}]; ok {
		return *s
	}
	return SectorStats{}
}
