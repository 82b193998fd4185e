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

package command

import (
	"context"
	"strings"
	"sync"

	terrors "github.com/mchmarny/host-tuner/pkg/errors"
)

// Response is a canned result returned by FakeRunner.
type Response struct {
	Out string
	Err error
}

// FakeRunner is a Runner test double keyed by the full command line
// ("ethtool -c eth0"). Unknown command lines behave like a missing binary.
type FakeRunner struct {
	mu        sync.Mutex
	Responses map[string]Response
	Calls     []string
}

// NewFakeRunner returns a FakeRunner with the given canned responses.
func NewFakeRunner(responses map[string]Response) *FakeRunner {
	if responses == nil {
		responses = make(map[string]Response)
	}
	return &FakeRunner{Responses: responses}
}

// LookPath succeeds when any canned response starts with name.
func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for line := range f.Responses {
		if line == name || strings.HasPrefix(line, name+" ") {
			return "/usr/sbin/" + name, nil
		}
	}
	return "", terrors.New(terrors.ErrCodeUnsupported, "command not found")
}

// Run records the call and returns the canned response.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, line)

	r, ok := f.Responses[line]
	if !ok {
		return "", terrors.NewWithContext(terrors.ErrCodeUnsupported, "command not found",
			map[string]any{"command": line})
	}
	return r.Out, r.Err
}

// Called reports whether line was run.
func (f *FakeRunner) Called(line string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if c == line {
			return true
		}
	}
	return false
}
