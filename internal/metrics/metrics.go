// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics implements sim.Recorder on top of prometheus, so a host can
// scrape tick duration, live-squad count, and combat-gather concurrency
// without the simulation core depending on prometheus itself.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder implements sim.Recorder.
type Recorder struct {
	tickDuration         prometheus.Histogram
	squadsAlive          prometheus.Gauge
	combatGatherWorkers prometheus.Gauge
}

// New registers the engine's metrics against reg and returns a Recorder
// ready to hand to sim.World.SetRecorder.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tacticalsim",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of one fixed update.",
			Buckets:   prometheus.DefBuckets,
		}),
		squadsAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tacticalsim",
			Name:      "squads_alive",
			Help:      "Number of squads with health > 0.",
		}),
		combatGatherWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tacticalsim",
			Name:      "combat_gather_workers",
			Help:      "Goroutine count used by the last combat gather phase.",
		}),
	}
	reg.MustRegister(r.tickDuration, r.squadsAlive, r.combatGatherWorkers)
	return r
}

func (r *Recorder) ObserveTickDuration(seconds float64) { r.tickDuration.Observe(seconds) }
func (r *Recorder) SetSquadsAlive(count int)            { r.squadsAlive.Set(float64(count)) }
func (r *Recorder) SetCombatGatherWorkers(count int)    { r.combatGatherWorkers.Set(float64(count)) }
