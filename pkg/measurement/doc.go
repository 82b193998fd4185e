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

// Package measurement holds the typed readings of a snapshot.
//
//   - Type: one per tunable category (nic, kernel, cpu, service)
//   - Measurement: a Type and its Subtypes
//   - Subtype: readings of one source (coalesce, features, ring, sysctl,
//     sysfs, cmdline, systemd, kernel) keyed by tunable name
//   - Reading: a scalar that marshals as its bare value
//
// Raw host values go through ParseReading so integers serialize as
// numbers:
//
//	m := &Measurement{Type: TypeKernel}
//	st := m.GetOrCreateSubtype("sysctl")
//	st.Data["rmem_max"] = ParseReading("16777216")
//	st.AddAbsent("tcp_low_latency")
package measurement
