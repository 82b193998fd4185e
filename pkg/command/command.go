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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	utilexec "k8s.io/utils/exec"

	"github.com/mchmarny/host-tuner/pkg/defaults"
	terrors "github.com/mchmarny/host-tuner/pkg/errors"
)

// exitNotSupported is the exit status ethtool reports for EOPNOTSUPP.
const exitNotSupported = 95

// Runner runs external commands. Implementations must honour ctx and return
// whatever stdout the command produced, also when it fails.
type Runner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Executor is the production Runner backed by k8s.io/utils/exec.
type Executor struct {
	exec    utilexec.Interface
	timeout time.Duration
}

// Option is a functional option for configuring Executor instances.
type Option func(*Executor)

// WithTimeout bounds every command run by the Executor.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithExec replaces the underlying exec implementation.
func WithExec(ex utilexec.Interface) Option {
	return func(e *Executor) {
		e.exec = ex
	}
}

// New creates an Executor with the provided options.
func New(opts ...Option) *Executor {
	e := &Executor{
		exec:    utilexec.New(),
		timeout: defaults.CommandTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the bound applied to every command.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// LookPath resolves name in PATH.
func (e *Executor) LookPath(name string) (string, error) {
	p, err := e.exec.LookPath(name)
	if err != nil {
		return "", terrors.WrapWithContext(terrors.ErrCodeUnsupported,
			"command not found", err, map[string]any{"command": name})
	}
	return p, nil
}

// Run executes name with args and returns its stdout, partial output
// included on failure. A missing binary or an
// EOPNOTSUPP exit is reported as UNSUPPORTED, a deadline as TIMEOUT, any other
// failure as INTERNAL with stderr in the error context.
func (e *Executor) Run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := e.exec.CommandContext(ctx, name, args...)
	cmd.SetStdout(&stdout)
	cmd.SetStderr(&stderr)

	slog.Debug("running command", "command", name, "args", args)

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	errCtx := map[string]any{
		"command": name,
		"args":    strings.Join(args, " "),
		"stderr":  strings.TrimSpace(stderr.String()),
	}

	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return stdout.String(), terrors.WrapWithContext(terrors.ErrCodeTimeout, "command timed out", err, errCtx)
	}
	if errors.Is(err, utilexec.ErrExecutableNotFound) {
		return stdout.String(), terrors.WrapWithContext(terrors.ErrCodeUnsupported, "command not found", err, errCtx)
	}

	var exitErr utilexec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitStatus() == exitNotSupported {
		return stdout.String(), terrors.WrapWithContext(terrors.ErrCodeUnsupported, "operation not supported", err, errCtx)
	}
	if strings.Contains(strings.ToLower(stderr.String()), "not supported") {
		return stdout.String(), terrors.WrapWithContext(terrors.ErrCodeUnsupported, "operation not supported", err, errCtx)
	}

	return stdout.String(), terrors.WrapWithContext(terrors.ErrCodeInternal, "command failed", err, errCtx)
}
