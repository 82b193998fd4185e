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

// Host paths and names used when nothing else is configured.
const (
	// SysctlFile is the system-wide kernel parameter file that receives the
	// managed block.
	SysctlFile = "/etc/sysctl.conf"

	// ProcSysRoot is where runtime kernel parameters are read and written.
	ProcSysRoot = "/proc/sys"

	// ProcCmdline holds the kernel boot parameters.
	ProcCmdline = "/proc/cmdline"

	// ProcNetRoute holds the IPv4 routing table.
	ProcNetRoute = "/proc/net/route"

	// SysClassNet has one entry per network interface.
	SysClassNet = "/sys/class/net"

	// SysCPURoot is the per-CPU sysfs tree (cpufreq, cpuidle).
	SysCPURoot = "/sys/devices/system/cpu"

	// UnitDir is where the boot-time unit is installed.
	UnitDir = "/etc/systemd/system"

	// UnitName is the boot-time unit that re-applies the tuning.
	UnitName = "host-tuner.service"

	// ProbeHost is the external endpoint of the connectivity probe.
	ProbeHost = "8.8.8.8"

	// ProbePort is used by the TCP fallback of the connectivity probe.
	ProbePort = 53

	// Profile is the tuning profile used when none is configured.
	Profile = "standard"
)
