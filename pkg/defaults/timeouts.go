// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package defaults

import "time"

// Command timeouts for external tool invocations.
const (
	// CommandTimeout bounds a single ethtool/cpupower invocation.
	CommandTimeout = 5 * time.Second

	// SystemdTimeout bounds a single D-Bus call to the service manager.
	SystemdTimeout = 10 * time.Second

	// SystemdJobTimeout bounds waiting for a start/stop job to finish.
	SystemdJobTimeout = 30 * time.Second
)

// Connectivity probe settings.
const (
	// ProbeSamples is the fixed number of latency samples.
	ProbeSamples = 5

	// ProbeTimeout bounds the wait for each sample.
	ProbeTimeout = 2 * time.Second

	// ProbeInterval paces samples of the TCP fallback.
	ProbeInterval = 200 * time.Millisecond
)

// Operation timeouts for whole runs.
const (
	// ApplyTimeout bounds a complete apply run.
	ApplyTimeout = 5 * time.Minute

	// VerifyTimeout bounds a complete verify run, including the probe.
	VerifyTimeout = 2 * time.Minute

	// SnapshotTimeout bounds a read-only snapshot.
	SnapshotTimeout = 1 * time.Minute
)
