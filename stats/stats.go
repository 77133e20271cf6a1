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
Package stats implements statistics collection and reporting.
It is used by the discipline engine and the daemon to report internal
counters, such as number of ticks consumed and corrections issued.
*/
package stats

import (
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// FetchStats returns counters and gauges exported by a running daemon's
// monitoring endpoint
func FetchStats(url string) (map[string]int64, error) {
	c := http.Client{
		Timeout: time.Second * 2,
	}

	resp, err := c.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	s := make(map[string]int64)
	err = json.Unmarshal(b, &s)

	return s, err
}

// Stats is a metric collection interface
type Stats interface {
	// Start starts a stat reporter
	// Use this for passive reporters
	Start(monitoringport int)

	// IncTicks atomically add 1 to the counter of consumed source ticks
	IncTicks()

	// IncBadTicks atomically add 1 to the counter of rejected source ticks
	IncBadTicks()

	// IncReadErrors atomically add 1 to the counter of local clock read failures
	IncReadErrors()

	// IncSteps atomically add 1 to the counter of attempted clock steps
	IncSteps()

	// IncStepErrors atomically add 1 to the counter of failed clock steps
	IncStepErrors()

	// IncSlews atomically add 1 to the counter of attempted clock slews
	IncSlews()

	// IncSlewErrors atomically add 1 to the counter of failed clock slews
	IncSlewErrors()

	// SetFilteredOffsetNS atomically sets the filtered offset gauge
	SetFilteredOffsetNS(offsetNS int64)

	// SetOffsetJitterNS atomically sets the raw offset jitter gauge
	SetOffsetJitterNS(jitterNS int64)
}
