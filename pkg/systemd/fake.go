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

package systemd

import (
	"context"
	"sync"

	terrors "github.com/mchmarny/host-tuner/pkg/errors"
)

// FakeManager is an in-memory Manager for tests. Units absent from
// Properties report ActiveState "inactive" and UnitFileState "disabled"
// unless Unavailable is set, which makes every call UNSUPPORTED.
type FakeManager struct {
	mu          sync.Mutex
	Unavailable bool
	Properties  map[string]map[string]string
	Calls       []string
	Err         error
}

// NewFakeManager returns an empty FakeManager.
func NewFakeManager() *FakeManager {
	return &FakeManager{Properties: make(map[string]map[string]string)}
}

func (f *FakeManager) record(call string) error {
	f.Calls = append(f.Calls, call)
	if f.Unavailable {
		return terrors.New(terrors.ErrCodeUnsupported, "systemd unavailable")
	}
	return f.Err
}

func (f *FakeManager) set(unit, prop, value string) {
	if f.Properties[unit] == nil {
		f.Properties[unit] = make(map[string]string)
	}
	f.Properties[unit][prop] = value
}

// UnitProperty implements Manager.
func (f *FakeManager) UnitProperty(_ context.Context, unit, property string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable {
		return "", terrors.New(terrors.ErrCodeUnsupported, "systemd unavailable")
	}
	if v, ok := f.Properties[unit][property]; ok {
		return v, nil
	}
	switch property {
	case "ActiveState":
		return "inactive", nil
	case "UnitFileState":
		return "disabled", nil
	}
	return "", terrors.New(terrors.ErrCodeUnsupported, "unit property not found")
}

// Start implements Manager.
func (f *FakeManager) Start(_ context.Context, unit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("start " + unit); err != nil {
		return err
	}
	f.set(unit, "ActiveState", "active")
	return nil
}

// Stop implements Manager.
func (f *FakeManager) Stop(_ context.Context, unit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("stop " + unit); err != nil {
		return err
	}
	f.set(unit, "ActiveState", "inactive")
	return nil
}

// Enable implements Manager.
func (f *FakeManager) Enable(_ context.Context, unit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("enable " + unit); err != nil {
		return err
	}
	f.set(unit, "UnitFileState", "enabled")
	return nil
}

// Disable implements Manager.
func (f *FakeManager) Disable(_ context.Context, unit string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("disable " + unit); err != nil {
		return err
	}
	f.set(unit, "UnitFileState", "disabled")
	return nil
}

// Reload implements Manager.
func (f *FakeManager) Reload(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("reload")
}

// Close implements Manager.
func (f *FakeManager) Close() {}

// Count returns how many recorded calls equal call.
func (f *FakeManager) Count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == call {
			n++
		}
	}
	return n
}
