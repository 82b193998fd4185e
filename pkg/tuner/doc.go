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

// Package tuner applies a tunable profile to the host.
//
// Mutate is the single mutation sequence shared by `apply` and the boot
// unit (`apply --boot`). For every mutable tunable it reads the current
// value, skips it when already at target, sets it otherwise, and re-reads
// to confirm. A missing tool or sysctl is recorded as unsupported and a
// rejected write as failed; neither stops the sequence.
//
// Apply adds persistence on top: accepted kernel parameters go into the
// managed block of the sysctl file (see sysctlconf) and the boot unit is
// installed and enabled (see bootunit). Both steps are idempotent.
//
//	t := tuner.New(probe.New(iface), command.New(), systemd.NewManager(),
//	    tuner.WithInterface(iface),
//	    tuner.WithProfile(tunable.ProfileHFT))
//	res, err := t.Apply(ctx)
package tuner
