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
	"strings"

	terrors "github.com/mchmarny/host-tuner/pkg/errors"
	"github.com/mchmarny/host-tuner/pkg/probe"
	"github.com/mchmarny/host-tuner/pkg/tunable"
	"github.com/mchmarny/host-tuner/pkg/version"
)

// Operator represents a comparison operator in expectation expressions.
type Operator string

const (
	// OperatorGTE represents ">=" (greater than or equal).
	OperatorGTE Operator = ">="

	// OperatorLTE represents "<=" (less than or equal).
	OperatorLTE Operator = "<="

	// OperatorGT represents ">" (greater than).
	OperatorGT Operator = ">"

	// OperatorLT represents "<" (less than).
	OperatorLT Operator = "<"

	// OperatorEQ represents "==" (exact match).
	OperatorEQ Operator = "=="

	// OperatorNE represents "!=" (not equal).
	OperatorNE Operator = "!="

	// OperatorMax matches when the value equals its pre-set maximum.
	OperatorMax Operator = tunable.ExpectMaximum

	// OperatorExact represents no operator (exact string match).
	OperatorExact Operator = ""
)

// Expectation is a parsed expectation expression.
type Expectation struct {
	Operator Operator

	// Value is the expected value after the operator.
	Value string

	// IsVersionComparison indicates if this should be treated as a version comparison.
	IsVersionComparison bool
}

// ParseExpectation parses an expectation expression.
// Examples:
//   - ">= 4.9" -> {Operator: ">=", Value: "4.9", IsVersionComparison: true}
//   - "bbr" -> {Operator: "", Value: "bbr"}
//   - "max" -> {Operator: "max"}
//   - "4096  87380 16777216" -> {Operator: "", Value: "4096 87380 16777216"}
func ParseExpectation(expr string) (*Expectation, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, terrors.New(terrors.ErrCodeInvalidRequest, "expectation cannot be empty")
	}

	if expr == tunable.ExpectMaximum {
		return &Expectation{Operator: OperatorMax}, nil
	}

	e := &Expectation{}

	// longest first so ">=" is not read as ">"
	operators := []Operator{OperatorGTE, OperatorLTE, OperatorNE, OperatorEQ, OperatorGT, OperatorLT}
	for _, op := range operators {
		if strings.HasPrefix(expr, string(op)) {
			e.Operator = op
			e.Value = strings.TrimSpace(strings.TrimPrefix(expr, string(op)))
			break
		}
	}

	if e.Operator == "" {
		e.Operator = OperatorExact
		e.Value = normalize(expr)
	}

	if e.Value == "" {
		return nil, terrors.New(terrors.ErrCodeInvalidRequest, "expectation value cannot be empty after operator")
	}

	switch e.Operator {
	case OperatorGTE, OperatorLTE, OperatorGT, OperatorLT:
		e.IsVersionComparison = true
	case OperatorEQ, OperatorNE:
		e.IsVersionComparison = looksLikeVersion(e.Value)
	}

	return e, nil
}

// normalize collapses whitespace runs so multi-field sysctl values compare
// equal regardless of tabs.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// looksLikeVersion returns true if the value appears to be a version string.
func looksLikeVersion(s string) bool {
	s = strings.TrimPrefix(s, "v")
	hasDigit, hasDot := false, false
	for _, c := range s {
		if c >= '0' && c <= '9' {
			hasDigit = true
		}
		if c == '.' {
			hasDot = true
		}
	}
	return hasDigit && hasDot
}

// Evaluate reports whether a present reading satisfies the expectation.
// An error means the reading could not be compared (an unparsable version
// or an unknown maximum) and counts as a mismatch.
func (e *Expectation) Evaluate(r probe.Reading) (bool, error) {
	actual := normalize(r.Value)

	switch e.Operator {
	case OperatorExact:
		return actual == e.Value, nil

	case OperatorMax:
		if r.Max == "" {
			return false, terrors.New(terrors.ErrCodeMismatch, "maximum not reported")
		}
		return actual == normalize(r.Max), nil

	case OperatorEQ, OperatorNE:
		eq := actual == e.Value
		if e.IsVersionComparison {
			if ev, err := version.ParseVersion(e.Value); err == nil {
				if av, err := version.ParseVersion(actual); err == nil {
					eq = ev.Equals(av)
				}
			}
		}
		if e.Operator == OperatorNE {
			return !eq, nil
		}
		return eq, nil

	case OperatorGTE, OperatorGT, OperatorLTE, OperatorLT:
		expected, err := version.ParseVersion(e.Value)
		if err != nil {
			return false, terrors.WrapWithContext(terrors.ErrCodeInvalidRequest,
				"cannot parse expected version", err, map[string]any{"version": e.Value})
		}
		observed, err := version.ParseVersion(actual)
		if err != nil {
			return false, terrors.WrapWithContext(terrors.ErrCodeMismatch,
				"cannot parse observed version", err, map[string]any{"version": actual})
		}

		cmp := observed.Compare(expected)

		//nolint:exhaustive // only ordering operators reach this switch
		switch e.Operator {
		case OperatorGTE:
			return cmp >= 0, nil
		case OperatorGT:
			return cmp > 0, nil
		case OperatorLTE:
			return cmp <= 0, nil
		default:
			return cmp < 0, nil
		}

	default:
		return false, terrors.NewWithContext(terrors.ErrCodeInvalidRequest,
			"unknown operator", map[string]any{"operator": e.Operator})
	}
}

// String returns the expression form of the expectation.
func (e *Expectation) String() string {
	switch e.Operator {
	case OperatorExact:
		return e.Value
	case OperatorMax:
		return tunable.ExpectMaximum
	default:
		return fmt.Sprintf("%s %s", e.Operator, e.Value)
	}
}
