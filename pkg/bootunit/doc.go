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

// Package bootunit renders and installs the oneshot systemd unit that
// re-runs `host-tuner apply --boot` after the network comes up, so runtime
// settings that do not survive a reboot (NIC coalescing, offloads, rings,
// governor, C-states) are restored.
//
// The unit file is written only when its content differs and enabling an
// enabled unit is a no-op, so installing twice leaves one unit.
package bootunit
