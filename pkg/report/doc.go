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

// Package report renders verify and apply results for people and for
// monitoring.
//
// WriteVerify and WriteApply produce a lipgloss-styled terminal report,
// one section per tunable category. Buffer sizes are annotated with IEC
// units (16777216 (16 MiB)) and tunable names are title-cased.
//
// WriteMetricsFile writes verify results in the Prometheus textfile format
// for the node_exporter textfile collector:
//
//	hosttuner_verify_tunables{status="fail"} 1
//	hosttuner_verify_tunable_status{category="kernel",name="congestion_control",severity="fail"} 2
//	hosttuner_verify_exit_code 1
//	hosttuner_connectivity_rtt_seconds{host="8.8.8.8",method="icmp",tier="good"} 0.0031
package report
