/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package stats

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// PromStats implements Stats interface
// This implementation exposes metrics via the prometheus scrape endpoint
type PromStats struct {
	registry *prometheus.Registry

	ticks      prometheus.Counter
	badTicks   prometheus.Counter
	readErrors prometheus.Counter
	steps      prometheus.Counter
	stepErrors prometheus.Counter
	slews      prometheus.Counter
	slewErrors prometheus.Counter

	filteredOffsetNS prometheus.Gauge
	offsetJitterNS   prometheus.Gauge
}

// NewPromStats creates a new instance of PromStats with all collectors registered
func NewPromStats() *PromStats {
	p := &PromStats{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnssdisc_ticks_total",
			Help: "Number of source ticks consumed",
		}),
		badTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnssdisc_bad_ticks_total",
			Help: "Number of source ticks rejected",
		}),
		readErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnssdisc_read_errors_total",
			Help: "Number of local clock read failures",
		}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnssdisc_steps_total",
			Help: "Number of attempted clock steps",
		}),
		stepErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnssdisc_step_errors_total",
			Help: "Number of failed clock steps",
		}),
		slews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnssdisc_slews_total",
			Help: "Number of attempted clock slews",
		}),
		slewErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gnssdisc_slew_errors_total",
			Help: "Number of failed clock slews",
		}),
		filteredOffsetNS: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gnssdisc_filtered_offset_ns",
			Help: "Filtered offset between source and local clock",
		}),
		offsetJitterNS: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gnssdisc_offset_jitter_ns",
			Help: "Standard deviation of raw offsets",
		}),
	}
	p.registry.MustRegister(
		p.ticks, p.badTicks, p.readErrors,
		p.steps, p.stepErrors, p.slews, p.slewErrors,
		p.filteredOffsetNS, p.offsetJitterNS,
	)
	return p
}

// Start runs http server exposing the prometheus scrape endpoint
func (p *PromStats) Start(monitoringport int) {
	http.Handle("/metrics", promhttp.HandlerFor(
		p.registry,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics to support exemplars.
			EnableOpenMetrics: true,
		},
	))
	addr := fmt.Sprintf(":%d", monitoringport)
	log.Debugf("Starting prometheus endpoint on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Errorf("Failed to start listener: %v", err)
	}
}

// IncTicks increments the counter
func (p *PromStats) IncTicks() {
	p.ticks.Inc()
}

// IncBadTicks increments the counter
func (p *PromStats) IncBadTicks() {
	p.badTicks.Inc()
}

// IncReadErrors increments the counter
func (p *PromStats) IncReadErrors() {
	p.readErrors.Inc()
}

// IncSteps increments the counter
func (p *PromStats) IncSteps() {
	p.steps.Inc()
}

// IncStepErrors increments the counter
func (p *PromStats) IncStepErrors() {
	p.stepErrors.Inc()
}

// IncSlews increments the counter
func (p *PromStats) IncSlews() {
	p.slews.Inc()
}

// IncSlewErrors increments the counter
func (p *PromStats) IncSlewErrors() {
	p.slewErrors.Inc()
}

// SetFilteredOffsetNS sets the gauge
func (p *PromStats) SetFilteredOffsetNS(offsetNS int64) {
	p.filteredOffsetNS.Set(float64(offsetNS))
}

// SetOffsetJitterNS sets the gauge
func (p *PromStats) SetOffsetJitterNS(jitterNS int64) {
	p.offsetJitterNS.Set(float64(jitterNS))
}
