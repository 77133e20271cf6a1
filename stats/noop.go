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

// NoopStats is a Stats implementation that does nothing. It is used
// when monitoring is disabled and in tests.
type NoopStats struct{}

// Start will do nothing
func (n *NoopStats) Start(_ int) {}

// IncTicks will do nothing
func (n *NoopStats) IncTicks() {}

// IncBadTicks will do nothing
func (n *NoopStats) IncBadTicks() {}

// IncReadErrors will do nothing
func (n *NoopStats) IncReadErrors() {}

// IncSteps will do nothing
func (n *NoopStats) IncSteps() {}

// IncStepErrors will do nothing
func (n *NoopStats) IncStepErrors() {}

// IncSlews will do nothing
func (n *NoopStats) IncSlews() {}

// IncSlewErrors will do nothing
func (n *NoopStats) IncSlewErrors() {}

// SetFilteredOffsetNS will do nothing
func (n *NoopStats) SetFilteredOffsetNS(_ int64) {}

// SetOffsetJitterNS will do nothing
func (n *NoopStats) SetOffsetJitterNS(_ int64) {}
