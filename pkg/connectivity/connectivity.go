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

package connectivity

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/mchmarny/host-tuner/pkg/command"
	"github.com/mchmarny/host-tuner/pkg/defaults"
)

// Tier is an informational latency class. It never affects the exit code.
type Tier string

const (
	TierExcellent   Tier = "excellent"
	TierGood        Tier = "good"
	TierModerate    Tier = "moderate"
	TierHigh        Tier = "high"
	TierUnreachable Tier = "unreachable"
)

// Method is how round trips were measured.
type Method string

const (
	MethodICMP Method = "icmp"
	MethodTCP  Method = "tcp"
)

// TierFor classifies an average round trip. No replies is unreachable.
func TierFor(avg time.Duration, received int) Tier {
	switch {
	case received == 0:
		return TierUnreachable
	case avg < time.Millisecond:
		return TierExcellent
	case avg < 5*time.Millisecond:
		return TierGood
	case avg < 20*time.Millisecond:
		return TierModerate
	default:
		return TierHigh
	}
}

// Result is the outcome of one connectivity probe.
type Result struct {
	Host     string        `json:"host" yaml:"host"`
	Method   Method        `json:"method,omitempty" yaml:"method,omitempty"`
	Samples  int           `json:"samples" yaml:"samples"`
	Received int           `json:"received" yaml:"received"`
	AvgRTT   time.Duration `json:"avgRtt" yaml:"avgRtt"`
	Tier     Tier          `json:"tier" yaml:"tier"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Prober measures network round trip latency.
type Prober interface {
	Probe(ctx context.Context) Result
}

// Pinger probes with ping and falls back to timed TCP connects when ping
// is missing or gets no replies.
type Pinger struct {
	host     string
	port     int
	samples  int
	timeout  time.Duration
	interval time.Duration
	runner   command.Runner
	dial     func(ctx context.Context, network, addr string) (net.Conn, error)
}

// Option configures a Pinger.
type Option func(*Pinger)

// WithHost sets the probe target.
func WithHost(host string) Option {
	return func(p *Pinger) {
		p.host = host
	}
}

// WithPort sets the TCP fallback port.
func WithPort(port int) Option {
	return func(p *Pinger) {
		p.port = port
	}
}

// WithSamples sets the number of round trips.
func WithSamples(n int) Option {
	return func(p *Pinger) {
		p.samples = n
	}
}

// WithTimeout bounds the wait for each reply.
func WithTimeout(d time.Duration) Option {
	return func(p *Pinger) {
		p.timeout = d
	}
}

// WithInterval sets the spacing between TCP samples.
func WithInterval(d time.Duration) Option {
	return func(p *Pinger) {
		p.interval = d
	}
}

// WithRunner sets the command runner used for ping. The runner's own
// per-command timeout must cover Budget, or ping is killed early.
func WithRunner(r command.Runner) Option {
	return func(p *Pinger) {
		p.runner = r
	}
}

// WithDialer replaces the TCP dial function.
func WithDialer(dial func(ctx context.Context, network, addr string) (net.Conn, error)) Option {
	return func(p *Pinger) {
		p.dial = dial
	}
}

// New returns a Pinger with defaults from pkg/defaults.
func New(opts ...Option) *Pinger {
	p := &Pinger{
		host:     defaults.ProbeHost,
		port:     defaults.ProbePort,
		samples:  defaults.ProbeSamples,
		timeout:  defaults.ProbeTimeout,
		interval: defaults.ProbeInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runner == nil {
		p.runner = command.New(command.WithTimeout(p.Budget()))
	}
	if p.dial == nil {
		d := &net.Dialer{}
		p.dial = d.DialContext
	}
	return p
}

// Budget is the longest a probe may take: every sample waits at most
// timeout plus the interval, with one timeout of slack.
func (p *Pinger) Budget() time.Duration {
	return time.Duration(p.samples)*(p.timeout+p.interval) + p.timeout + time.Second
}

// Probe measures latency to the configured host.
func (p *Pinger) Probe(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, p.Budget())
	defer cancel()

	if _, err := p.runner.LookPath("ping"); err == nil {
		r := p.icmp(ctx)
		if r.Received > 0 {
			return r
		}
		slog.Debug("ping got no replies, trying tcp", "host", p.host, "error", r.Error)
	}
	return p.tcp(ctx)
}

var (
	receivedRe = regexp.MustCompile(`(\d+) (?:packets )?received`)
	rttRe      = regexp.MustCompile(`(?:rtt|round-trip) min/avg/max(?:/mdev)? = [\d.]+/([\d.]+)/`)
)

// ParsePing extracts the received count and average RTT from ping output.
func ParsePing(out string) (received int, avg time.Duration, ok bool) {
	m := receivedRe.FindStringSubmatch(out)
	if m == nil {
		return 0, 0, false
	}
	received, _ = strconv.Atoi(m[1])

	if r := rttRe.FindStringSubmatch(out); r != nil {
		ms, err := strconv.ParseFloat(r[1], 64)
		if err == nil {
			avg = time.Duration(math.Round(ms*1e3)) * time.Microsecond
		}
	}
	return received, avg, true
}

func (p *Pinger) icmp(ctx context.Context) Result {
	res := Result{Host: p.host, Method: MethodICMP, Samples: p.samples}

	wait := int(p.timeout.Seconds())
	if wait < 1 {
		wait = 1
	}
	out, err := p.runner.Run(ctx, "ping", "-c", strconv.Itoa(p.samples), "-W", strconv.Itoa(wait), p.host)
	received, avg, ok := ParsePing(out)
	if !ok {
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Error = "unrecognized ping output"
		}
	}
	res.Received = received
	res.AvgRTT = avg
	res.Tier = TierFor(avg, received)
	return res
}

func (p *Pinger) tcp(ctx context.Context) Result {
	res := Result{Host: p.host, Method: MethodTCP, Samples: p.samples}
	addr := net.JoinHostPort(p.host, strconv.Itoa(p.port))
	limiter := rate.NewLimiter(rate.Every(p.interval), 1)

	var total time.Duration
	var lastErr error
	for range p.samples {
		if err := limiter.Wait(ctx); err != nil {
			lastErr = err
			break
		}
		dctx, cancel := context.WithTimeout(ctx, p.timeout)
		start := time.Now()
		conn, err := p.dial(dctx, "tcp", addr)
		elapsed := time.Since(start)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		total += elapsed
		res.Received++
	}

	if res.Received > 0 {
		res.AvgRTT = total / time.Duration(res.Received)
	}
	if lastErr != nil && res.Received == 0 {
		res.Error = fmt.Sprintf("tcp connect to %s failed: %v", addr, lastErr)
	}
	res.Tier = TierFor(res.AvgRTT, res.Received)
	return res
}
