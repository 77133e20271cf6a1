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
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/facebook/gnssdisc/clock"
	"github.com/facebook/gnssdisc/daemon"
	"github.com/facebook/gnssdisc/stats"
)

var okString = color.GreenString("[ OK ]")
var warnString = color.YellowString("[WARN]")

// flag
var statusMonitoringPort int

func init() {
	RootCmd.AddCommand(statusCmd)
	defaults := daemon.DefaultConfig()
	statusCmd.Flags().IntVarP(&statusMonitoringPort, "monitoringport", "m", defaults.MonitoringPort, "monitoring port of the running daemon")
}

func printStatus(port int) error {
	counters, err := stats.FetchStats(fmt.Sprintf("http://localhost:%d", port))
	if err != nil {
		return fmt.Errorf("fetching daemon stats: %w", err)
	}

	offset := time.Duration(counters["filteredoffset_ns"])
	health := okString
	if counters["steperrors"]+counters["slewerrors"]+counters["readerrors"] > 0 {
		health = warnString
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(health, "filtered offset", offset)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"counter", "value"})
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%d", counters[k])})
	}
	table.Render()

	freqPPB, state, err := clock.FrequencyPPB(clock.RealtimeClockID)
	if err != nil {
		log.Warningf("No local clock frequency data available: %v", err)
		return nil
	}
	fmt.Printf("Clock frequency: %f PPB (state %d)\n", freqPPB, state)
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print status of the running discipline daemon",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		if err := printStatus(statusMonitoringPort); err != nil {
			log.Fatal(err)
		}
	},
}
