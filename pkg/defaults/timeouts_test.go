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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"CommandTimeout", CommandTimeout, 1 * time.Second, 30 * time.Second},
		{"SystemdTimeout", SystemdTimeout, 1 * time.Second, 60 * time.Second},
		{"SystemdJobTimeout", SystemdJobTimeout, 5 * time.Second, 2 * time.Minute},
		{"ProbeTimeout", ProbeTimeout, 500 * time.Millisecond, 10 * time.Second},
		{"ApplyTimeout", ApplyTimeout, 1 * time.Minute, 15 * time.Minute},
		{"VerifyTimeout", VerifyTimeout, 30 * time.Second, 10 * time.Minute},
		{"SnapshotTimeout", SnapshotTimeout, 10 * time.Second, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestProbeFitsInVerify(t *testing.T) {
	// The whole probe must finish well inside the verify budget.
	worst := time.Duration(ProbeSamples) * (ProbeTimeout + ProbeInterval)
	if worst >= VerifyTimeout {
		t.Errorf("worst-case probe time (%v) should be less than VerifyTimeout (%v)", worst, VerifyTimeout)
	}
}

func TestProbeSamplesPositive(t *testing.T) {
	if ProbeSamples <= 0 {
		t.Errorf("ProbeSamples = %d, want > 0", ProbeSamples)
	}
}
