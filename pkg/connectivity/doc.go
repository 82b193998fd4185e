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

// Package connectivity measures round trip latency to a reference host and
// classifies it into a tier (excellent, good, moderate, high, unreachable).
//
// ping is used when installed; otherwise, or when ICMP gets no replies,
// timed TCP connects to host:port are used, paced by a rate limiter. Every
// sample is bounded by the per-sample timeout and the whole probe by a
// budget derived from the sample count, so a dead network cannot stall a
// verify run.
//
// The tier is reported for information only.
package connectivity
