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

package daemon

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/facebook/gnssdisc/disc"
)

// Stats flavours
const (
	StatsJSON       = "json"
	StatsPrometheus = "prometheus"
	StatsNone       = "none"
)

// Config specifies gnssdisc run options
type Config struct {
	Device             string        `yaml:"device"`              // serial port of the GNSS receiver
	Baud               int           `yaml:"baud"`                // receiver baud rate
	MonitoringPort     int           `yaml:"monitoringport"`      // port to run monitoring http server on, 0 to disable
	Stats              string        `yaml:"stats"`               // which stats reporter to run, see stats flavours const
	Alpha              float64       `yaml:"alpha"`               // EWMA smoothing factor
	StepThreshold      time.Duration `yaml:"step_threshold"`      // offset magnitude above which clock is stepped
	DisciplineInterval time.Duration `yaml:"discipline_interval"` // minimum interval between corrections
	SummaryInterval    time.Duration `yaml:"summary_interval"`    // how often to log a processing summary
}

// DefaultConfig generates default daemon config
func DefaultConfig() *Config {
	engine := disc.DefaultConfig()
	return &Config{
		Device:             "/dev/ttyS0",
		Baud:               9600,
		MonitoringPort:     8889,
		Stats:              StatsJSON,
		Alpha:              engine.Alpha,
		StepThreshold:      engine.StepThreshold,
		DisciplineInterval: engine.DisciplineInterval,
		SummaryInterval:    time.Minute,
	}
}

// ReadConfig reads config from the file on top of the defaults
func ReadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	cData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(cData, c)
	if err != nil {
		return nil, err
	}

	return c, c.Validate()
}

// Validate checks config for obvious mistakes
func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("no GNSS receiver device")
	}
	switch c.Stats {
	case StatsJSON, StatsPrometheus, StatsNone:
	default:
		return fmt.Errorf("unsupported stats flavour %q", c.Stats)
	}
	if c.SummaryInterval <= 0 {
		return fmt.Errorf("summary interval %v must be positive", c.SummaryInterval)
	}
	return c.EngineConfig().Validate()
}

// EngineConfig converts daemon config into discipline engine config
func (c *Config) EngineConfig() disc.Config {
	return disc.Config{
		Alpha:              c.Alpha,
		StepThreshold:      c.StepThreshold,
		DisciplineInterval: c.DisciplineInterval,
	}
}
