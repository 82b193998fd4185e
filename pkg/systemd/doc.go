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

// Package systemd wraps the systemd D-Bus API for the few operations
// host-tuner needs: reading unit properties (ActiveState, UnitFileState),
// starting and stopping units, enabling and disabling them for boot, and
// reloading unit files.
//
// The connection is opened lazily. On hosts without systemd (containers,
// minimal images) every call returns an UNSUPPORTED StructuredError, which
// the probe turns into an absent reading and apply into an unsupported
// outcome.
//
//	m := systemd.NewManager()
//	defer m.Close()
//	state, err := m.UnitProperty(ctx, "irqbalance.service", "ActiveState")
package systemd
