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
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/gnssdisc/daemon"
)

// flags
var runConfig string
var runDevice string
var runBaud int
var runMonitoringPort int

func init() {
	RootCmd.AddCommand(runCmd)
	defaults := daemon.DefaultConfig()
	runCmd.Flags().StringVarP(&runConfig, "config", "c", "", "path to the config")
	runCmd.Flags().StringVarP(&runDevice, "device", "d", defaults.Device, "GNSS receiver serial port")
	runCmd.Flags().IntVarP(&runBaud, "baud", "b", defaults.Baud, "GNSS receiver baud rate")
	runCmd.Flags().IntVarP(&runMonitoringPort, "monitoringport", "m", defaults.MonitoringPort, "port to start monitoring http server on")
}

func doRun(cmd *cobra.Command) error {
	cfg := daemon.DefaultConfig()
	if runConfig != "" {
		var err error
		cfg, err = daemon.ReadConfig(runConfig)
		if err != nil {
			return err
		}
	}
	// flags set explicitly win over the config file
	if cmd.Flags().Changed("device") {
		cfg.Device = runDevice
	}
	if cmd.Flags().Changed("baud") {
		cfg.Baud = runBaud
	}
	if cmd.Flags().Changed("monitoringport") {
		cfg.MonitoringPort = runMonitoringPort
	}

	d, err := daemon.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt for graceful shutdown
	sigStop := make(chan os.Signal, 1)
	signal.Notify(sigStop, syscall.SIGINT)
	signal.Notify(sigStop, syscall.SIGQUIT)
	signal.Notify(sigStop, syscall.SIGTERM)
	go func() {
		<-sigStop
		log.Warning("Graceful shutdown")
		cancel()
	}()

	if err := d.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the clock discipline daemon",
	Run: func(cmd *cobra.Command, _ []string) {
		ConfigureVerbosity()

		if err := doRun(cmd); err != nil {
			log.Fatal(err)
		}
	},
}
