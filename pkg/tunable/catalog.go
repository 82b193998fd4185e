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

package tunable

var (
	both = []Profile{ProfileStandard, ProfileHFT}
	hft  = []Profile{ProfileHFT}

	ethtoolCoalesce = []string{"ethtool", "-c", PlaceholderInterface}
	ethtoolFeatures = []string{"ethtool", "-k", PlaceholderInterface}
	ethtoolRing     = []string{"ethtool", "-g", PlaceholderInterface}
)

func coalesce(name, key, expect, desc string, profiles []Profile) Spec {
	return Spec{
		Name: name, Description: desc, Category: CategoryNIC,
		Source: SourceCommand, Command: ethtoolCoalesce, Format: FormatCoalesce,
		Key: key, Expect: expect, Severity: SeverityWarn, Mutable: true,
		Profiles: profiles,
	}
}

func feature(name, key, setKey, desc string, profiles []Profile) Spec {
	return Spec{
		Name: name, Description: desc, Category: CategoryNIC,
		Source: SourceCommand, Command: ethtoolFeatures, Format: FormatFeatures,
		Key: key, SetKey: setKey, Expect: "off", Severity: SeverityWarn, Mutable: true,
		Profiles: profiles,
	}
}

func ring(name, key, setKey, desc string) Spec {
	return Spec{
		Name: name, Description: desc, Category: CategoryNIC,
		Source: SourceCommand, Command: ethtoolRing, Format: FormatRing,
		Key: key, SetKey: setKey, Expect: ExpectMaximum, Severity: SeverityWarn, Mutable: true,
		Profiles: both,
	}
}

func sysctl(name, key, expect string, sev Severity, desc string, profiles []Profile) Spec {
	return Spec{
		Name: name, Description: desc, Category: CategoryKernel,
		Source: SourceSysctl, Key: key, Expect: expect, Severity: sev,
		Mutable: true, Persist: true, Profiles: profiles,
	}
}

var catalog = []Spec{
	// NIC interrupt coalescing
	coalesce("adaptive_rx", "adaptive-rx", "off", "Adaptive RX interrupt moderation", both),
	coalesce("adaptive_tx", "adaptive-tx", "off", "Adaptive TX interrupt moderation", both),
	coalesce("rx_usecs", "rx-usecs", "0", "RX interrupt delay in microseconds", both),
	coalesce("tx_usecs", "tx-usecs", "0", "TX interrupt delay in microseconds", both),
	coalesce("rx_frames", "rx-frames", "1", "Frames per RX interrupt", hft),

	// NIC offloads
	feature("gro", "generic-receive-offload", "gro", "Generic receive offload", both),
	feature("lro", "large-receive-offload", "lro", "Large receive offload", both),
	feature("tso", "tcp-segmentation-offload", "tso", "TCP segmentation offload", hft),
	feature("gso", "generic-segmentation-offload", "gso", "Generic segmentation offload", hft),

	// NIC rings
	ring("ring_rx", "RX", "rx", "RX ring size at hardware maximum"),
	ring("ring_tx", "TX", "tx", "TX ring size at hardware maximum"),

	// Kernel network stack
	{
		Name: "congestion_control", Description: "TCP congestion control algorithm", Category: CategoryKernel,
		Source: SourceSysctl, Key: "net.ipv4.tcp_congestion_control", Expect: "bbr", Severity: SeverityFail,
		Mutable: true, Persist: true, Prepare: []string{"modprobe", "tcp_bbr"}, Profiles: both,
	},
	sysctl("default_qdisc", "net.core.default_qdisc", "fq", SeverityWarn, "Default queueing discipline (pairs with BBR)", both),
	sysctl("busy_poll", "net.core.busy_poll", "50", SeverityFail, "Busy polling for poll/select in microseconds", hft),
	sysctl("busy_read", "net.core.busy_read", "50", SeverityFail, "Busy polling for socket reads in microseconds", hft),
	sysctl("tcp_low_latency", "net.ipv4.tcp_low_latency", "1", SeverityWarn, "Prefer latency over throughput (removed in 4.14)", both),
	sysctl("tcp_fastopen", "net.ipv4.tcp_fastopen", "3", SeverityWarn, "TCP Fast Open for client and server", both),
	sysctl("tcp_no_metrics_save", "net.ipv4.tcp_no_metrics_save", "1", SeverityWarn, "Do not cache metrics of closed connections", both),
	sysctl("tcp_slow_start_after_idle", "net.ipv4.tcp_slow_start_after_idle", "0", SeverityWarn, "Keep the congestion window after idle", both),
	sysctl("rmem_max", "net.core.rmem_max", "16777216", SeverityWarn, "Maximum socket receive buffer", both),
	sysctl("wmem_max", "net.core.wmem_max", "16777216", SeverityWarn, "Maximum socket send buffer", both),
	sysctl("tcp_rmem", "net.ipv4.tcp_rmem", "4096 87380 16777216", SeverityWarn, "TCP receive buffer min/default/max", both),
	sysctl("tcp_wmem", "net.ipv4.tcp_wmem", "4096 65536 16777216", SeverityWarn, "TCP send buffer min/default/max", both),
	sysctl("netdev_max_backlog", "net.core.netdev_max_backlog", "5000", SeverityWarn, "Input queue length per CPU", both),
	sysctl("somaxconn", "net.core.somaxconn", "4096", SeverityWarn, "Listen backlog limit", both),
	sysctl("tcp_keepalive_time", "net.ipv4.tcp_keepalive_time", "60", SeverityWarn, "Idle seconds before keepalive probes", both),
	sysctl("tcp_keepalive_intvl", "net.ipv4.tcp_keepalive_intvl", "10", SeverityWarn, "Seconds between keepalive probes", both),
	sysctl("tcp_keepalive_probes", "net.ipv4.tcp_keepalive_probes", "6", SeverityWarn, "Keepalive probes before dropping", both),
	sysctl("tcp_timestamps", "net.ipv4.tcp_timestamps", "1", SeverityWarn, "TCP timestamps for RTT measurement", both),
	{
		Name: "kernel_version", Description: "Running kernel supports BBR", Category: CategoryKernel,
		Source: SourceKernel, Key: "kernel.osrelease", Expect: ">= 4.9", Severity: SeverityFail,
		Profiles: both,
	},

	// CPU
	{
		Name: "cpu_governor", Description: "CPU frequency governor on every core", Category: CategoryCPU,
		Source: SourceSysfs, Path: "cpu[0-9]*/cpufreq/scaling_governor", Expect: "performance",
		Severity: SeverityWarn, Mutable: true, Profiles: both,
	},
	{
		Name: "cstates_disabled", Description: "Deep idle states disabled on every core", Category: CategoryCPU,
		Source: SourceSysfs, Path: "cpu[0-9]*/cpuidle/state[1-9]*/disable", Expect: "1",
		Severity: SeverityWarn, Mutable: true, Profiles: hft,
	},
	{
		Name: "intel_idle_max_cstate", Description: "intel_idle limited to C0 at boot", Category: CategoryCPU,
		Source: SourceCmdline, Key: "intel_idle.max_cstate", Expect: "0", Severity: SeverityWarn, Profiles: hft,
	},
	{
		Name: "processor_max_cstate", Description: "ACPI idle limited to C1 at boot", Category: CategoryCPU,
		Source: SourceCmdline, Key: "processor.max_cstate", Expect: "1", Severity: SeverityWarn, Profiles: hft,
	},

	// Services
	{
		Name: "irqbalance", Description: "IRQ balancing daemon stopped", Category: CategoryService,
		Source: SourceService, Key: "irqbalance.service", Property: "ActiveState", Expect: "inactive",
		Severity: SeverityWarn, Mutable: true, Profiles: both,
	},
	{
		Name: "boot_unit", Description: "Boot-time re-apply unit enabled", Category: CategoryService,
		Source: SourceService, Key: PlaceholderUnit, Property: "UnitFileState", Expect: "enabled",
		Severity: SeverityWarn, Profiles: both,
	},
}

// Catalog returns a copy of the full tunable table in report order.
func Catalog() []Spec {
	out := make([]Spec, len(catalog))
	copy(out, catalog)
	return out
}

// ForProfile returns the tunables of p in report order.
func ForProfile(p Profile) []Spec {
	out := make([]Spec, 0, len(catalog))
	for _, s := range catalog {
		if s.InProfile(p) {
			out = append(out, s)
		}
	}
	return out
}

// Lookup returns the tunable called name.
func Lookup(name string) (Spec, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}
