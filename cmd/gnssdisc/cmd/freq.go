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

package cmd

import (
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/gnssdisc/clock"
)

// flags
var freqSet float64
var freqStep time.Duration

func init() {
	RootCmd.AddCommand(freqCmd)
	freqCmd.Flags().Float64VarP(&freqSet, "set", "s", math.NaN(), "New clock frequency in PPB")
	freqCmd.Flags().DurationVarP(&freqStep, "step", "t", 0, "Step the clock by the given amount, i.e. 100ms or -2s")
}

func doFreq(freq float64, step time.Duration) error {
	curFreq, state, err := clock.FrequencyPPB(clock.RealtimeClockID)
	if err != nil {
		return fmt.Errorf("reading clock frequency: %w", err)
	}
	log.Infof("Current clock frequency: %f (state %d)", curFreq, state)

	maxFreq, _, err := clock.MaxFreqPPB(clock.RealtimeClockID)
	if err != nil {
		return err
	}
	log.Infof("Clock supports frequency range [%f,%f]", -maxFreq, maxFreq)

	if step != 0 {
		log.Infof("Stepping clock by %v", step)
		if _, err := clock.Step(clock.RealtimeClockID, step); err != nil {
			return fmt.Errorf("stepping clock: %w", err)
		}
	}

	if math.IsNaN(freq) {
		return nil
	}

	if freq < -maxFreq || freq > maxFreq {
		return fmt.Errorf("frequency %f is out of supported range", freq)
	}

	log.Infof("Setting new frequency value %f", freq)
	_, err = clock.AdjFreqPPB(clock.RealtimeClockID, freq)

	return err
}

var freqCmd = &cobra.Command{
	Use:   "freq",
	Short: "Print local clock frequency information. Use `-set <freq>` to change the frequency, `-step <duration>` to step the clock",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		if err := doFreq(freqSet, freqStep); err != nil {
			log.Fatal(err)
		}
	},
}
