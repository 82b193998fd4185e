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

// Package header provides the Kind/APIVersion/Metadata header embedded in
// every serialized host-tuner result (VerifyResult, ApplyResult, Snapshot,
// TunableList).
//
// Init stamps the metadata with an RFC 3339 timestamp, a random runId
// (UUID v4) that ties log lines to a report, the hostname and the tool
// version:
//
//	kind: VerifyResult
//	apiVersion: hosttuner.io/v1alpha1
//	metadata:
//	  timestamp: "2026-01-12T10:30:00Z"
//	  runId: 1b4e28ba-2fa1-11d2-883f-0016d3cca427
//	  hostname: trade-01
//	  version: v0.3.0
package header
