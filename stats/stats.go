/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package stats implements the process-wide memory/connection accounting
// the spec's concurrency model calls "the allocator wrapper": current/peak
// byte counters plus pool gauges, observable through a prometheus registry
// but never used for back-pressure.
package stats

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector tracks current/peak allocation-equivalent counters (bytes
// in/out across every connection) and pool gauges, all exported as
// prometheus metrics under the "bolt" namespace.
type Collector struct {
	current uint64
	peak    uint64
	events  uint64

	bytesIn     *prometheus.CounterVec
	bytesOut    *prometheus.CounterVec
	currentGauge prometheus.GaugeFunc
	peakGauge    prometheus.GaugeFunc
	inUse       *prometheus.GaugeVec
}

// NewCollector builds a Collector; it does not register its metrics.
// Callers typically register the returned Collector's Registerer-compatible
// metrics (see Collectors) once, at process startup.
func NewCollector() *Collector {
	c := &Collector{
		bytesIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bolt",
			Name:      "connection_bytes_in_total",
			Help:      "Total bytes received across all Bolt connections.",
		}, []string{"address"}),
		bytesOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bolt",
			Name:      "connection_bytes_out_total",
			Help:      "Total bytes sent across all Bolt connections.",
		}, []string{"address"}),
		inUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "bolt",
			Name:      "pool_connections_in_use",
			Help:      "Connections currently acquired from a direct pool, by endpoint.",
		}, []string{"address"}),
	}

	c.currentGauge = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "bolt",
		Name:      "memory_current_bytes",
		Help:      "Current accounted byte usage across all connections.",
	}, func() float64 { return float64(atomic.LoadUint64(&c.current)) })

	c.peakGauge = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "bolt",
		Name:      "memory_peak_bytes",
		Help:      "Peak accounted byte usage across all connections.",
	}, func() float64 { return float64(atomic.LoadUint64(&c.peak)) })

	return c
}

// Collectors returns every prometheus.Collector this package owns, for a
// single MustRegister call at process startup.
func (c *Collector) Collectors() []prometheus.Collector {
	return []prometheus.Collector{c.bytesIn, c.bytesOut, c.inUse, c.currentGauge, c.peakGauge}
}

// Observe folds one connection's byte counters into the running
// current/peak totals and the per-address counters.
func (c *Collector) Observe(address string, bytesIn, bytesOut uint64) {
	c.bytesIn.WithLabelValues(address).Add(float64(bytesIn))
	c.bytesOut.WithLabelValues(address).Add(float64(bytesOut))

	total := bytesIn + bytesOut
	cur := atomic.AddUint64(&c.current, total)
	atomic.AddUint64(&c.events, 1)

	for {
		p := atomic.LoadUint64(&c.peak)
		if cur <= p || atomic.CompareAndSwapUint64(&c.peak, p, cur) {
			break
		}
	}
}

// Release subtracts a closed connection's accounted bytes from the running
// current total (peak is never lowered, matching a high-water mark).
func (c *Collector) Release(total uint64) {
	for {
		cur := atomic.LoadUint64(&c.current)
		next := uint64(0)
		if cur > total {
			next = cur - total
		}
		if atomic.CompareAndSwapUint64(&c.current, cur, next) {
			return
		}
	}
}

// SetInUse records the direct pool's connections_in_use gauge for address.
func (c *Collector) SetInUse(address string, n int) {
	c.inUse.WithLabelValues(address).Set(float64(n))
}

// Events returns the number of Observe calls made so far.
func (c *Collector) Events() uint64 { return atomic.LoadUint64(&c.events) }

// Current and Peak expose the running byte-accounting totals directly,
// without requiring a scrape through the prometheus registry.
func (c *Collector) Current() uint64 { return atomic.LoadUint64(&c.current) }
func (c *Collector) Peak() uint64    { return atomic.LoadUint64(&c.peak) }
