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

/*
Package daemon ties the GNSS source, the discipline engine and the
monitoring together into a single runnable unit.
*/
package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/facebook/gnssdisc/clock"
	"github.com/facebook/gnssdisc/disc"
	"github.com/facebook/gnssdisc/gnss"
	"github.com/facebook/gnssdisc/stats"
)

// Daemon feeds receiver ticks into the discipline engine for the
// lifetime of the process
type Daemon struct {
	cfg    *Config
	stats  stats.Stats
	engine *disc.Engine
	source *gnss.Source

	// engine state is read-modify-write per tick and is shared with the
	// summary reporter, so it is guarded here rather than in the engine
	mux sync.Mutex
}

// New creates a Daemon from config, opening the receiver port
func New(cfg *Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var st stats.Stats
	switch cfg.Stats {
	case StatsJSON:
		st = &stats.JSONStats{}
	case StatsPrometheus:
		st = stats.NewPromStats()
	default:
		st = &stats.NoopStats{}
	}
	engine, err := disc.New(cfg.EngineConfig(), &clock.Realtime{}, st)
	if err != nil {
		return nil, fmt.Errorf("creating discipline engine: %w", err)
	}
	source, err := gnss.Open(cfg.Device, cfg.Baud)
	if err != nil {
		return nil, err
	}
	return &Daemon{
		cfg:    cfg,
		stats:  st,
		engine: engine,
		source: source,
	}, nil
}

// Run blocks, disciplining the clock until the context is cancelled
func (d *Daemon) Run(ctx context.Context) error {
	defer d.source.Close()

	if d.cfg.MonitoringPort != 0 && d.cfg.Stats != StatsNone {
		go d.stats.Start(d.cfg.MonitoringPort)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Infof("disciplining CLOCK_REALTIME against %s", d.cfg.Device)
		return d.source.Run(ctx, func(timestampMS uint64) {
			d.mux.Lock()
			defer d.mux.Unlock()
			if err := d.engine.OnTick(timestampMS); err != nil {
				log.Warningf("dropping tick: %v", err)
			}
		})
	})
	eg.Go(func() error {
		ticker := time.NewTicker(d.cfg.SummaryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				d.mux.Lock()
				log.Infof("processed %d ticks, filtered offset %v, jitter %v",
					d.engine.SampleCount(), d.engine.Offset(), d.engine.Jitter())
				d.mux.Unlock()
			}
		}
	})
	return eg.Wait()
}
