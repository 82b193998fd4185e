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
	"fmt"

	"github.com/mchmarny/host-tuner/pkg/probe"
	"github.com/mchmarny/host-tuner/pkg/tunable"
)

// Classify applies the classification rules to one reading:
//
//	present and matching      -> pass
//	mismatch or absent, warn  -> warn
//	mismatch or absent, fail  -> fail
//
// An expectation that cannot be evaluated counts as a mismatch.
func Classify(spec tunable.Spec, r probe.Reading) ProbeResult {
	res := ProbeResult{
		Name:        spec.Name,
		Category:    spec.Category,
		Description: spec.Description,
		Expected:    spec.Expect,
		Severity:    spec.Severity,
	}

	if !r.Present {
		res.Status = onMiss(spec.Severity)
		res.Message = "not available on this system"
		if r.Err != nil {
			res.Message = fmt.Sprintf("not available: %v", r.Err)
		}
		return res
	}

	observed := r.Value
	res.Observed = &observed

	exp, err := ParseExpectation(spec.Expect)
	if err != nil {
		res.Status = onMiss(spec.Severity)
		res.Message = fmt.Sprintf("invalid expectation: %v", err)
		return res
	}

	ok, err := exp.Evaluate(r)
	switch {
	case err != nil:
		res.Status = onMiss(spec.Severity)
		res.Message = fmt.Sprintf("cannot compare: %v", err)
	case ok:
		res.Matched = true
		res.Status = StatusPass
	default:
		res.Status = onMiss(spec.Severity)
		res.Message = fmt.Sprintf("expected %s, got %s", describe(exp, r), r.Value)
	}
	return res
}

func onMiss(sev tunable.Severity) Status {
	if sev == tunable.SeverityFail {
		return StatusFail
	}
	return StatusWarn
}

func describe(e *Expectation, r probe.Reading) string {
	if e.Operator == OperatorMax {
		return fmt.Sprintf("max (%s)", r.Max)
	}
	return e.String()
}
