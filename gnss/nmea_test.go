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

package gnss

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRMC(t *testing.T) {
	got, err := ParseSentence("$GPRMC,123519.00,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*44")
	require.NoError(t, err)
	require.Equal(t, time.Date(1994, time.March, 23, 12, 35, 19, 0, time.UTC), got)

	got, err = ParseSentence("$GNRMC,081836.500,A,3751.65,S,14507.36,E,000.0,360.0,130625,011.3,E*6E")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.June, 13, 8, 18, 36, 500000000, time.UTC), got)
}

func TestParseRMCNoFix(t *testing.T) {
	_, err := ParseSentence("$GPRMC,123519.00,V,,,,,,,230394,,*1D")
	require.ErrorIs(t, err, ErrNoFix)
}

func TestParseZDA(t *testing.T) {
	got, err := ParseSentence("$GNZDA,160012.710,11,03,2004,-1,00*53")
	require.NoError(t, err)
	require.Equal(t, time.Date(2004, time.March, 11, 16, 0, 12, 710000000, time.UTC), got)
}

func TestParseNoChecksum(t *testing.T) {
	// checksum field is optional
	got, err := ParseSentence("$GPZDA,201530.00,04,07,2002,00,00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2002, time.July, 4, 20, 15, 30, 0, time.UTC), got)
}

func TestParseBadChecksum(t *testing.T) {
	_, err := ParseSentence("$GNZDA,160012.710,11,03,2004,-1,00*54")
	require.Error(t, err)
	_, err = ParseSentence("$GNZDA,160012.710,11,03,2004,-1,00*ZZ")
	require.Error(t, err)
}

func TestParseUnsupported(t *testing.T) {
	for _, line := range []string{
		"$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,",
		"$GPGSV,2,1,08,01,40,083,46,02,17,308,41,12,07,344,39,14,22,228,45",
		"garbage",
		"$",
		"$G,1,2",
	} {
		_, err := ParseSentence(line)
		require.ErrorIs(t, err, ErrUnsupported, "expected %q to be unsupported", line)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, line := range []string{
		"$GPRMC,1235,A,,,,,,,230394,,",
		"$GPRMC,123519.00,A",
		"$GPRMC,123519.00,A,,,,,,,23mar94,,",
		"$GNZDA,160012.710,11,03",
		"$GNZDA,160012.710,aa,bb,cccc",
	} {
		_, err := ParseSentence(line)
		require.Error(t, err, "expected %q to fail parsing", line)
		require.NotErrorIs(t, err, ErrUnsupported)
	}
}
