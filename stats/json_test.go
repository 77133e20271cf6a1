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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONStatsCounters(t *testing.T) {
	stats := JSONStats{}

	stats.IncTicks()
	require.Equal(t, int64(1), stats.ticks)

	stats.IncBadTicks()
	require.Equal(t, int64(1), stats.badTicks)

	stats.IncReadErrors()
	require.Equal(t, int64(1), stats.readErrors)

	stats.IncSteps()
	require.Equal(t, int64(1), stats.steps)

	stats.IncStepErrors()
	require.Equal(t, int64(1), stats.stepErrors)

	stats.IncSlews()
	require.Equal(t, int64(1), stats.slews)

	stats.IncSlewErrors()
	require.Equal(t, int64(1), stats.slewErrors)
}

func TestJSONStatsGauges(t *testing.T) {
	stats := JSONStats{}

	stats.SetFilteredOffsetNS(2500000)
	require.Equal(t, int64(2500000), stats.filteredOffsetNS)

	stats.SetFilteredOffsetNS(-1500000)
	require.Equal(t, int64(-1500000), stats.filteredOffsetNS)

	stats.SetOffsetJitterNS(300000)
	require.Equal(t, int64(300000), stats.offsetJitterNS)
}

func TestJSONStatsToMap(t *testing.T) {
	j := JSONStats{
		ticks:            1,
		badTicks:         2,
		readErrors:       3,
		steps:            4,
		stepErrors:       5,
		slews:            6,
		slewErrors:       7,
		filteredOffsetNS: 8,
		offsetJitterNS:   9,
	}
	result := j.toMap()

	expectedMap := make(map[string]int64)
	expectedMap["ticks"] = 1
	expectedMap["badticks"] = 2
	expectedMap["readerrors"] = 3
	expectedMap["steps"] = 4
	expectedMap["steperrors"] = 5
	expectedMap["slews"] = 6
	expectedMap["slewerrors"] = 7
	expectedMap["filteredoffset_ns"] = 8
	expectedMap["offsetjitter_ns"] = 9

	require.Equal(t, expectedMap, result)
}

func TestJSONStatsHandleRequest(t *testing.T) {
	j := JSONStats{}
	j.IncTicks()
	j.SetFilteredOffsetNS(1200000)

	rec := httptest.NewRecorder()
	j.handleRequest(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	got := make(map[string]int64)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(1), got["ticks"])
	require.Equal(t, int64(1200000), got["filteredoffset_ns"])
}

func TestFetchStats(t *testing.T) {
	j := JSONStats{}
	j.IncSlews()

	server := httptest.NewServer(http.HandlerFunc(j.handleRequest))
	defer server.Close()

	got, err := FetchStats(server.URL)
	require.NoError(t, err)
	require.Equal(t, int64(1), got["slews"])
}
