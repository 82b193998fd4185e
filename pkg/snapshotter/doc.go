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

// Package snapshotter captures a read-only snapshot of every tunable in
// the catalog, regardless of profile.
//
// Reads run in parallel through an errgroup bounded by Concurrency; each
// read is independent and side-effect free. Readings are grouped into one
// measurement per category and one subtype per source:
//
//	kind: Snapshot
//	apiVersion: hosttuner.io/v1alpha1
//	interface: eth0
//	measurements:
//	  - type: nic
//	    subtypes:
//	      - subtype: ring
//	        data:
//	          ring_rx: 256
//	          ring_rx.max: 4096
//	  - type: kernel
//	    subtypes:
//	      - subtype: sysctl
//	        data:
//	          congestion_control: bbr
//	        context:
//	          absent: tcp_low_latency
//
// Collection duration, per-source read duration and the absent count are
// exported as Prometheus metrics on the default registry.
//
// Usage:
//
//	s := &snapshotter.HostSnapshotter{
//	    Version:    version,
//	    Interface:  iface,
//	    Reader:     probe.New(iface),
//	    Serializer: serializer.NewStdoutWriter(serializer.FormatYAML),
//	}
//	if err := s.Measure(ctx); err != nil {
//	    return err
//	}
package snapshotter
