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
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// JSONStats implements Stats interface
// This implementation reports JSON metrics via http interface
// This is a passive implementation. Only "Start" needs to be called
type JSONStats struct {
	// keep these aligned to 64-bit for sync/atomic
	ticks            int64
	badTicks         int64
	readErrors       int64
	steps            int64
	stepErrors       int64
	slews            int64
	slewErrors       int64
	filteredOffsetNS int64
	offsetJitterNS   int64
}

// toMap converts struct to a map
func (j *JSONStats) toMap() (export map[string]int64) {
	export = make(map[string]int64)

	export["ticks"] = atomic.LoadInt64(&j.ticks)
	export["badticks"] = atomic.LoadInt64(&j.badTicks)
	export["readerrors"] = atomic.LoadInt64(&j.readErrors)
	export["steps"] = atomic.LoadInt64(&j.steps)
	export["steperrors"] = atomic.LoadInt64(&j.stepErrors)
	export["slews"] = atomic.LoadInt64(&j.slews)
	export["slewerrors"] = atomic.LoadInt64(&j.slewErrors)
	export["filteredoffset_ns"] = atomic.LoadInt64(&j.filteredOffsetNS)
	export["offsetjitter_ns"] = atomic.LoadInt64(&j.offsetJitterNS)

	return export
}

// handleRequest is a handler used for all http monitoring requests
func (j *JSONStats) handleRequest(w http.ResponseWriter, _ *http.Request) {
	js, err := json.Marshal(j.toMap())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(js); err != nil {
		log.Errorf("Failed to reply: %v", err)
	}
}

// Start runs http server reporting JSON metrics
func (j *JSONStats) Start(monitoringport int) {
	http.HandleFunc("/", j.handleRequest)
	addr := fmt.Sprintf(":%d", monitoringport)
	log.Debugf("Starting http json server on %s", addr)
	err := http.ListenAndServe(addr, nil)
	if err != nil {
		log.Errorf("Failed to start listener: %v", err)
	}
}

// IncTicks atomically add 1 to the counter
func (j *JSONStats) IncTicks() {
	atomic.AddInt64(&j.ticks, 1)
}

// IncBadTicks atomically add 1 to the counter
func (j *JSONStats) IncBadTicks() {
	atomic.AddInt64(&j.badTicks, 1)
}

// IncReadErrors atomically add 1 to the counter
func (j *JSONStats) IncReadErrors() {
	atomic.AddInt64(&j.readErrors, 1)
}

// IncSteps atomically add 1 to the counter
func (j *JSONStats) IncSteps() {
	atomic.AddInt64(&j.steps, 1)
}

// IncStepErrors atomically add 1 to the counter
func (j *JSONStats) IncStepErrors() {
	atomic.AddInt64(&j.stepErrors, 1)
}

// IncSlews atomically add 1 to the counter
func (j *JSONStats) IncSlews() {
	atomic.AddInt64(&j.slews, 1)
}

// IncSlewErrors atomically add 1 to the counter
func (j *JSONStats) IncSlewErrors() {
	atomic.AddInt64(&j.slewErrors, 1)
}

// SetFilteredOffsetNS atomically sets the gauge
func (j *JSONStats) SetFilteredOffsetNS(offsetNS int64) {
	atomic.StoreInt64(&j.filteredOffsetNS, offsetNS)
}

// SetOffsetJitterNS atomically sets the gauge
func (j *JSONStats) SetOffsetJitterNS(jitterNS int64) {
	atomic.StoreInt64(&j.offsetJitterNS, jitterNS)
}
