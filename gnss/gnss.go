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
Package gnss reads time from a GNSS receiver over a serial port.

The receiver emits NMEA sentences at a fixed nominal rate; every sentence
carrying a valid UTC timestamp is turned into a single absolute
milliseconds-since-epoch sample and pushed to the registered handler.
The package makes no attempt to clean arrival jitter up, that is the
job of the discipline engine consuming the samples.
*/
package gnss

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// DefaultBaud is used when no baud rate is configured
const DefaultBaud = 9600

// Handler consumes one absolute source timestamp per received tick,
// in milliseconds since epoch
type Handler func(timestampMS uint64)

// Source is a GNSS receiver attached to a serial port
type Source struct {
	port   serial.Port
	device string
}

// Open opens the receiver serial port
func Open(device string, baud int) (*Source, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	mode := &serial.Mode{
		BaudRate: baud,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("opening GNSS receiver %q: %w", device, err)
	}
	return &Source{port: port, device: device}, nil
}

// Close closes the serial port
func (s *Source) Close() error {
	return s.port.Close()
}

// Run reads sentences from the receiver and pushes samples to h until
// the context is cancelled or the port dies
func (s *Source) Run(ctx context.Context, h Handler) error {
	// reads block, so cancellation is done by closing the port under the reader
	doneChan := make(chan error, 1)
	go func() {
		doneChan <- feed(s.port, h)
	}()
	select {
	case <-ctx.Done():
		log.Debugf("cancelled reading from %s", s.device)
		s.port.Close()
		<-doneChan
		return ctx.Err()
	case err := <-doneChan:
		if err != nil {
			return fmt.Errorf("reading from %s: %w", s.device, err)
		}
		return nil
	}
}

// feed scans r line by line and hands every parsed timestamp to h.
// Sentences without usable time are skipped, malformed ones are logged.
func feed(r io.Reader, h Handler) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		t, err := ParseSentence(line)
		if err != nil {
			if !errors.Is(err, ErrUnsupported) {
				log.Debugf("skipping sentence %q: %v", line, err)
			}
			continue
		}
		h(uint64(t.UnixMilli()))
	}
	return scanner.Err()
}
