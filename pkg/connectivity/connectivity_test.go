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
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/host-tuner/pkg/command"
)

const pingOut = `PING 8.8.8.8 (8.8.8.8) 56(84) bytes of data.
64 bytes from 8.8.8.8: icmp_seq=1 ttl=117 time=3.02 ms
64 bytes from 8.8.8.8: icmp_seq=2 ttl=117 time=2.95 ms

--- 8.8.8.8 ping statistics ---
3 packets transmitted, 3 received, 0% packet loss, time 2003ms
rtt min/avg/max/mdev = 2.950/3.010/3.061/0.045 ms
`

const busyboxOut = `--- 10.0.0.1 ping statistics ---
3 packets transmitted, 2 packets received, 33% packet loss
round-trip min/avg/max = 0.101/0.450/0.800 ms
`

func TestTierFor(t *testing.T) {
	tests := []struct {
		avg      time.Duration
		received int
		want     Tier
	}{
		{500 * time.Microsecond, 5, TierExcellent},
		{time.Millisecond, 5, TierGood},
		{4 * time.Millisecond, 5, TierGood},
		{19 * time.Millisecond, 5, TierModerate},
		{20 * time.Millisecond, 5, TierHigh},
		{0, 0, TierUnreachable},
	}
	for _, tt := range tests {
		t.Run(string(tt.want)+"/"+tt.avg.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(tt.avg, tt.received))
		})
	}
}

func TestParsePing(t *testing.T) {
	n, avg, ok := ParsePing(pingOut)
	require.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3010*time.Microsecond, avg)

	n, avg, ok = ParsePing(busyboxOut)
	require.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, 450*time.Microsecond, avg)

	_, _, ok = ParsePing("garbage")
	assert.False(t, ok)
}

func TestProbe_ICMP(t *testing.T) {
	runner := command.NewFakeRunner(map[string]command.Response{
		"ping -c 3 -W 1 8.8.8.8": {Out: pingOut},
	})
	p := New(WithRunner(runner), WithSamples(3), WithTimeout(time.Second))

	r := p.Probe(context.TODO())
	assert.Equal(t, MethodICMP, r.Method)
	assert.Equal(t, 3, r.Received)
	assert.Equal(t, TierGood, r.Tier)
	assert.Empty(t, r.Error)
}

type nopConn struct{ net.Conn }

func (nopConn) Close() error { return nil }

func TestProbe_TCPFallback(t *testing.T) {
	dials := 0
	p := New(
		WithRunner(command.NewFakeRunner(nil)),
		WithSamples(3),
		WithInterval(time.Millisecond),
		WithDialer(func(context.Context, string, string) (net.Conn, error) {
			dials++
			return nopConn{}, nil
		}),
	)

	r := p.Probe(context.TODO())
	assert.Equal(t, MethodTCP, r.Method)
	assert.Equal(t, 3, dials)
	assert.Equal(t, 3, r.Received)
	assert.Equal(t, TierExcellent, r.Tier)
}

func TestProbe_Unreachable(t *testing.T) {
	p := New(
		WithRunner(command.NewFakeRunner(nil)),
		WithSamples(2),
		WithInterval(time.Millisecond),
		WithDialer(func(context.Context, string, string) (net.Conn, error) {
			return nil, errors.New("connection refused")
		}),
	)

	r := p.Probe(context.TODO())
	assert.Equal(t, TierUnreachable, r.Tier)
	assert.Zero(t, r.Received)
	assert.Contains(t, r.Error, "connection refused")
}

func TestNew_DefaultRunnerCoversBudget(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"defaults", nil},
		{"ten samples", []Option{WithSamples(10), WithTimeout(2 * time.Second)}},
		{"slow link", []Option{WithSamples(20), WithTimeout(5 * time.Second)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.opts...)

			ex, ok := p.runner.(*command.Executor)
			require.True(t, ok)
			assert.GreaterOrEqual(t, ex.Timeout(), p.Budget())
			assert.Greater(t, p.Budget(), time.Duration(p.samples)*p.timeout)
		})
	}
}

func TestPinger_ICMPFailureStillParsed(t *testing.T) {
	runner := command.NewFakeRunner(map[string]command.Response{
		"ping -c 3 -W 1 8.8.8.8": {Out: busyboxOut, Err: errors.New("exit status 1")},
	})
	p := New(WithRunner(runner), WithHost("8.8.8.8"), WithSamples(3), WithTimeout(time.Second))

	r := p.Probe(context.TODO())
	assert.Equal(t, MethodICMP, r.Method)
	assert.Equal(t, 2, r.Received)
	assert.Equal(t, TierExcellent, r.Tier)
	assert.Empty(t, r.Error)
}
