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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeed(t *testing.T) {
	// a realistic receiver burst: noise, fixless sentences and two usable timestamps
	stream := strings.Join([]string{
		"$GPGSV,2,1,08,01,40,083,46,02,17,308,41,12,07,344,39,14,22,228,45",
		"",
		"$GPRMC,123519.00,V,,,,,,,230394,,*1D",
		"$GPRMC,123519.00,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*44",
		"not nmea at all",
		"$GNZDA,160012.710,11,03,2004,-1,00*53",
	}, "\r\n")

	var got []uint64
	err := feed(strings.NewReader(stream), func(timestampMS uint64) {
		got = append(got, timestampMS)
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{764426119000, 1079020812710}, got)
}

func TestFeedEmpty(t *testing.T) {
	var got []uint64
	err := feed(strings.NewReader(""), func(timestampMS uint64) {
		got = append(got, timestampMS)
	})
	require.NoError(t, err)
	require.Empty(t, got)
}
