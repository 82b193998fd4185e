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

import "github.com/mchmarny/host-tuner/pkg/header"

// List is the serializable table of one profile.
type List struct {
	header.Header `json:",inline" yaml:",inline"`

	Profile  Profile `json:"profile" yaml:"profile"`
	Tunables []Spec  `json:"tunables" yaml:"tunables"`
}

// NewList returns the tunables of p with a TunableList header.
func NewList(p Profile, version string) *List {
	l := &List{
		Profile:  p,
		Tunables: ForProfile(p),
	}
	l.Init(header.KindTunableList, version)
	l.Set("profile", string(p))
	return l
}
