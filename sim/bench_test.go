// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package sim

import "testing"

// benchWorld builds a world with n/2 Blue and n/2 Red AI squads scattered
// across a wide area, mirroring the scale stress tests the engine must
// sustain at 3,000-5,000 squads.
func benchWorld(n int) *World {
	w := NewWorld()
	w.SpawnMassSquads(Blue, -200, 0, n/2, 300, 1)
	w.SpawnMassSquads(Red, 200, 0, n/2, 300, uint32(n/2)+1000)
	return w
}

func BenchmarkStep1000Units(b *testing.B) {
	w := benchWorld(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Step(1.0 / 30.0)
	}
}

func BenchmarkStep5000Units(b *testing.B) {
	w := benchWorld(5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Step(1.0 / 30.0)
	}
}

func BenchmarkSnapshotJSON5000Units(b *testing.B) {
	w := benchWorld(5000)
	w.Step(1.0 / 30.0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = w.SnapshotJSON()
	}
}

func BenchmarkBinarySnapshot5000Units(b *testing.B) {
	w := benchWorld(5000)
	w.Step(1.0 / 30.0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = w.BinarySnapshot()
	}
}
