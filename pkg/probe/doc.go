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

// Package probe reads the current value of a tunable from the host.
//
// Each tunable.Source has a reader: ethtool-style command output (parsed by
// ParseCoalesce, ParseFeatures or ParseRing), /proc/sys files, sysfs globs
// that must agree across every CPU, kernel boot parameters, and systemd
// unit properties. Reading is side-effect free.
//
// A Reading with Present=false is the normal answer for a tool that is not
// installed, a driver that does not report a field, or a sysctl the kernel
// does not have. Classification of absent readings belongs to the caller.
//
// Usage:
//
//	p := probe.New("eth0")
//	r := p.Read(ctx, spec)
//	if r.Present {
//	    fmt.Println(r.Value)
//	}
package probe
