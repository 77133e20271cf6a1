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
Package clock contains wrappers around CLOCK_ADJTIME and CLOCK_SETTIME syscalls.

It allows interactions with supported clocks, such as the system realtime clock.

Supported methods include
  - reading the clock through Time
  - setting the clock to an absolute target through Set
  - calling CLOCK_ADJTIME syscall to read or adjust the frequency through
    FrequencyPPB and AdjFreqPPB
  - requesting a kernel-driven gradual phase correction through OffsetUS
  - stepping the clock through Step function, which adjusts the clock forwards
    or backwards by a given step size
  - returning maximum frequency adjustment possible for the clock
  - updating clock's status after synchronization.

The package also provides Realtime, which binds these primitives to
CLOCK_REALTIME behind the small interface the discipline engine consumes,
so the engine itself never touches a syscall directly.
*/
package clock
