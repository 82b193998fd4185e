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

// Package netif detects the primary network interface that NIC tunables
// are read from and applied to.
//
// Detection order: an explicit override (which must exist), the interface
// carrying the lowest-metric default route in /proc/net/route, then the
// first interface that is up and not loopback. When nothing qualifies the
// returned error has code FATAL and the caller exits non-zero.
package netif
