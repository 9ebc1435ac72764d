/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package server

import "github.com/prometheus/client_golang/prometheus"

// poolMetrics is the set of gauges/counters a Pool publishes, mirroring
// the idle-worker/need-counter bookkeeping spec.md §4.7 describes: with
// a semaphore standing in for the intrusive idle list, these metrics are
// what lets an operator see the same information (how many workers are
// busy, how many connections have been accepted) the origin exposed
// through direct inspection of the listener's in-process state.
type poolMetrics struct {
	acceptsTotal   prometheus.Counter
	activeSessions prometheus.Gauge
	acceptErrors   prometheus.Counter
}

func newPoolMetrics(reg prometheus.Registerer, name string) *poolMetrics {
	m := &poolMetrics{
		acceptsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "htcore",
			Subsystem:   "pool",
			Name:        "accepts_total",
			Help:        "Total connections accepted by this listening pool.",
			ConstLabels: prometheus.Labels{"pool": name},
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "htcore",
			Subsystem:   "pool",
			Name:        "active_sessions",
			Help:        "Sessions currently running against this listening pool.",
			ConstLabels: prometheus.Labels{"pool": name},
		}),
		acceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "htcore",
			Subsystem:   "pool",
			Name:        "accept_errors_total",
			Help:        "Accept() failures on this listening pool's endpoints.",
			ConstLabels: prometheus.Labels{"pool": name},
		}),
	}

	if reg != nil {
		_ = reg.Register(m.acceptsTotal)
		_ = reg.Register(m.activeSessions)
		_ = reg.Register(m.acceptErrors)
	}

	return m
}
