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
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPromStats(t *testing.T) {
	p := NewPromStats()

	p.IncTicks()
	p.IncTicks()
	require.Equal(t, float64(2), testutil.ToFloat64(p.ticks))

	p.IncSteps()
	require.Equal(t, float64(1), testutil.ToFloat64(p.steps))

	p.SetFilteredOffsetNS(-1500000)
	require.Equal(t, float64(-1500000), testutil.ToFloat64(p.filteredOffsetNS))

	p.SetOffsetJitterNS(300000)
	require.Equal(t, float64(300000), testutil.ToFloat64(p.offsetJitterNS))
}
