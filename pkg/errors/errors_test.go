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

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "interface not found")

	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "interface not found" {
		t.Errorf("expected message 'interface not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeUnsupported, "ethtool failed", cause)

	if err.Code != ErrCodeUnsupported {
		t.Errorf("expected code %s, got %s", ErrCodeUnsupported, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("timeout")
	ctx := map[string]any{
		"command":   "ethtool",
		"interface": "eth0",
	}

	err := WrapWithContext(ErrCodeTimeout, "ring read failed", cause, ctx)

	if err.Code != ErrCodeTimeout {
		t.Errorf("expected code %s, got %s", ErrCodeTimeout, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["interface"] != "eth0" {
		t.Errorf("expected interface to be eth0")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeFatal, "no network interface"),
			expected: "[FATAL] no network interface",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("apply: %w", New(ErrCodeUnauthorized, "root required"))

	if got := CodeOf(wrapped); got != ErrCodeUnauthorized {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeUnauthorized)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeUnsupported, "no ethtool")
	outer := Wrap(ErrCodeCriticalMissing, "busy_poll unreadable", inner)

	if !IsCode(outer, ErrCodeCriticalMissing) {
		t.Error("expected outer code to match")
	}
	if !IsCode(outer, ErrCodeUnsupported) {
		t.Error("expected nested code to match")
	}
	if IsCode(outer, ErrCodeFatal) {
		t.Error("unexpected FATAL match")
	}
	if IsCode(nil, ErrCodeFatal) {
		t.Error("nil error must not match")
	}
}
