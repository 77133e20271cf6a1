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

package clock

import (
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Realtime groups methods for interacting with the system realtime clock.
// It is the production implementation of the disc.SystemClock interface.
type Realtime struct{}

// Now reads current time of CLOCK_REALTIME
func (c *Realtime) Now() (time.Time, error) {
	return Time(RealtimeClockID)
}

// Step sets CLOCK_REALTIME to the absolute target time
func (c *Realtime) Step(target time.Time) error {
	return Set(RealtimeClockID, target)
}

// AdjOffsetUS asks the kernel to slew CLOCK_REALTIME by offset microseconds
func (c *Realtime) AdjOffsetUS(offsetUS int64) error {
	state, err := OffsetUS(RealtimeClockID, offsetUS)
	if err == nil && state != unix.TIME_OK {
		log.Debugf("clock state %d is not TIME_OK after requesting offset adjustment", state)
	}
	return err
}

// SetSync sets CLOCK_REALTIME status to TIME_OK
func (c *Realtime) SetSync() error {
	return SetSync(RealtimeClockID)
}
