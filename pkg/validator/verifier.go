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

package validator

import (
	"context"
	"log/slog"
	"time"

	"github.com/mchmarny/host-tuner/pkg/connectivity"
	"github.com/mchmarny/host-tuner/pkg/header"
	"github.com/mchmarny/host-tuner/pkg/probe"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// Phase names the steps of a verify run. Phases run strictly in order.
type Phase string

const (
	PhaseStart             Phase = "start"
	PhaseReadTunables      Phase = "read-tunables"
	PhaseClassify          Phase = "classify"
	PhaseProbeConnectivity Phase = "probe-connectivity"
	PhaseSummarize         Phase = "summarize"
)

// Verifier reads and classifies every tunable of a profile.
type Verifier struct {
	reader  probe.Reader
	prober  connectivity.Prober
	profile tunable.Profile
	iface   string
	version string
	specs   []tunable.Spec
}

// Option is a functional option for configuring Verifier instances.
type Option func(*Verifier)

// WithVersion sets the tool version recorded in the result header.
func WithVersion(version string) Option {
	return func(v *Verifier) {
		v.version = version
	}
}

// WithProfile selects the tunables to verify.
func WithProfile(p tunable.Profile) Option {
	return func(v *Verifier) {
		v.profile = p
	}
}

// WithInterface records the interface the reader was built for.
func WithInterface(iface string) Option {
	return func(v *Verifier) {
		v.iface = iface
	}
}

// WithProber enables the connectivity probe. Without it the probe is skipped.
func WithProber(p connectivity.Prober) Option {
	return func(v *Verifier) {
		v.prober = p
	}
}

// WithSpecs replaces the profile table.
func WithSpecs(specs []tunable.Spec) Option {
	return func(v *Verifier) {
		v.specs = specs
	}
}

// NewVerifier returns a Verifier reading values through reader.
func NewVerifier(reader probe.Reader, opts ...Option) *Verifier {
	v := &Verifier{
		reader:  reader,
		profile: tunable.ProfileStandard,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.specs == nil {
		v.specs = tunable.ForProfile(v.profile)
	}
	return v
}

// Verify runs start, read, classify, connectivity and summarize in order.
// A tunable that cannot be read is classified, never fatal; only context
// cancellation stops the scan early.
func (v *Verifier) Verify(ctx context.Context) (*VerifyResult, error) {
	start := time.Now()
	v.enter(PhaseStart)

	result := &VerifyResult{
		Interface: v.iface,
		Profile:   v.profile,
		Results:   make([]ProbeResult, 0, len(v.specs)),
	}
	result.Init(header.KindVerifyResult, v.version)
	result.Set("profile", v.profile.String())

	v.enter(PhaseReadTunables)
	readings := make([]probe.Reading, 0, len(v.specs))
	for _, spec := range v.specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		readings = append(readings, v.reader.Read(ctx, spec))
	}

	v.enter(PhaseClassify)
	for i, spec := range v.specs {
		pr := Classify(spec, readings[i])
		slog.Debug("tunable classified",
			"name", pr.Name,
			"expected", pr.Expected,
			"observed", pr.ObservedString(),
			"status", pr.Status)
		result.Results = append(result.Results, pr)
	}

	v.enter(PhaseProbeConnectivity)
	if v.prober != nil {
		c := v.prober.Probe(ctx)
		result.Connectivity = &c
		slog.Debug("connectivity probed", "host", c.Host, "tier", c.Tier, "avg", c.AvgRTT)
	}

	v.enter(PhaseSummarize)
	result.Tally = Fold(result.Results)
	result.Verdict, result.Message = VerdictFor(result.Tally)

	slog.Debug("verification completed",
		"pass", result.Tally.Pass,
		"warn", result.Tally.Warn,
		"fail", result.Tally.Fail,
		"verdict", result.Verdict,
		"duration", time.Since(start))

	return result, nil
}

func (v *Verifier) enter(p Phase) {
	slog.Debug("verify phase", "phase", p)
}
