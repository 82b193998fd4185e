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

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mchmarny/host-tuner/pkg/connectivity"
	"github.com/mchmarny/host-tuner/pkg/tunable"
	"github.com/mchmarny/host-tuner/pkg/tuner"
	"github.com/mchmarny/host-tuner/pkg/validator"
)

const labelWidth = 28

// WriteVerify renders a verify result for a terminal.
func WriteVerify(w io.Writer, res *validator.VerifyResult) error {
	if res == nil {
		return fmt.Errorf("verify result is nil")
	}

	var sb strings.Builder
	sb.WriteString(header("verify", res.Interface, string(res.Profile), res.Metadata["hostname"]))
	sb.WriteString("\n")

	for _, cat := range tunable.Categories {
		var lines []string
		for _, r := range res.Results {
			if r.Category != cat {
				continue
			}
			lines = append(lines, verifyLine(r))
		}
		if len(lines) == 0 {
			continue
		}
		sb.WriteString(TitleStyle.Render(CategoryLabel(cat)))
		sb.WriteString("\n")
		for _, l := range lines {
			sb.WriteString(l)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if res.Connectivity != nil {
		sb.WriteString(TitleStyle.Render("Connectivity"))
		sb.WriteString("\n")
		sb.WriteString(connectivityLine(res.Connectivity))
		sb.WriteString("\n")
	}

	sb.WriteString(verifyFooter(res))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func verifyLine(r validator.ProbeResult) string {
	line := fmt.Sprintf("  %s %s %s",
		statusTag(string(r.Status)),
		pad(Label(r.Name), labelWidth),
		ValueStyle.Render(HumanValue(r.Name, r.ObservedString())))
	if r.Status != validator.StatusPass {
		line += MutedStyle.Render(fmt.Sprintf("  (expected %s)", r.Expected))
	}
	return line
}

func connectivityLine(c *connectivity.Result) string {
	if c.Received == 0 {
		msg := fmt.Sprintf("  %s %s: no replies", tierStyle(c.Tier).Render(string(c.Tier)), c.Host)
		if c.Error != "" {
			msg += MutedStyle.Render(" (" + c.Error + ")")
		}
		return msg
	}
	return fmt.Sprintf("  %s %s via %s, %s/%s replies, avg %s %s",
		tierStyle(c.Tier).Render(string(c.Tier)),
		c.Host,
		c.Method,
		humanize.Comma(int64(c.Received)),
		humanize.Comma(int64(c.Samples)),
		c.AvgRTT,
		MutedStyle.Render("(informational)"))
}

func tierStyle(t connectivity.Tier) lipgloss.Style {
	switch t {
	case connectivity.TierExcellent, connectivity.TierGood:
		return SuccessStyle
	case connectivity.TierModerate:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

func verifyFooter(res *validator.VerifyResult) string {
	t := res.Tally
	counts := strings.Join([]string{
		LabelStyle.Render("Pass:") + " " + SuccessStyle.Render(fmt.Sprint(t.Pass)),
		LabelStyle.Render("Warn:") + " " + WarningStyle.Render(fmt.Sprint(t.Warn)),
		LabelStyle.Render("Fail:") + " " + ErrorStyle.Render(fmt.Sprint(t.Fail)),
	}, "  ")

	msg := SuccessStyle.Render(res.Message)
	switch res.Verdict {
	case validator.VerdictCore:
		msg = WarningStyle.Render(res.Message)
	case validator.VerdictFailed:
		msg = ErrorStyle.Render(res.Message)
	}
	return FooterBox.Render(counts + "\n" + msg)
}

// WriteApply renders an apply result for a terminal.
func WriteApply(w io.Writer, res *tuner.ApplyResult) error {
	if res == nil {
		return fmt.Errorf("apply result is nil")
	}

	var sb strings.Builder
	sb.WriteString(header("apply ("+string(res.Mode)+")", res.Interface, string(res.Profile), res.Metadata["hostname"]))
	sb.WriteString("\n")

	for _, cat := range tunable.Categories {
		var lines []string
		for _, it := range res.Items {
			if it.Category != cat {
				continue
			}
			lines = append(lines, applyLine(it))
		}
		if len(lines) == 0 {
			continue
		}
		sb.WriteString(TitleStyle.Render(CategoryLabel(cat)))
		sb.WriteString("\n")
		for _, l := range lines {
			sb.WriteString(l)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(applyFooter(res))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func applyLine(it tuner.ItemOutcome) string {
	var detail string
	switch it.Status {
	case tuner.StatusChanged:
		detail = fmt.Sprintf("%s -> %s", HumanValue(it.Name, it.Before), HumanValue(it.Name, it.After))
	case tuner.StatusPlanned:
		detail = fmt.Sprintf("%s -> %s", HumanValue(it.Name, it.Before), HumanValue(it.Name, it.Target))
	case tuner.StatusUnchanged:
		detail = HumanValue(it.Name, it.Before)
	default:
		detail = it.Message
	}
	return fmt.Sprintf("  %s %s %s", statusTag(string(it.Status)), pad(Label(it.Name), labelWidth), ValueStyle.Render(detail))
}

func applyFooter(res *tuner.ApplyResult) string {
	s := res.Summary
	lines := []string{strings.Join([]string{
		LabelStyle.Render("Changed:") + " " + SuccessStyle.Render(fmt.Sprint(s.Changed)),
		LabelStyle.Render("Unchanged:") + " " + ValueStyle.Render(fmt.Sprint(s.Unchanged)),
		LabelStyle.Render("Planned:") + " " + ValueStyle.Render(fmt.Sprint(s.Planned)),
		LabelStyle.Render("Unsupported:") + " " + WarningStyle.Render(fmt.Sprint(s.Unsupported)),
		LabelStyle.Render("Failed:") + " " + ErrorStyle.Render(fmt.Sprint(s.Failed)),
	}, "  ")}

	switch {
	case res.PersistError != "":
		lines = append(lines, ErrorStyle.Render("Kernel parameters not persisted: "+res.PersistError))
	case res.Persisted:
		lines = append(lines, LabelStyle.Render("Persisted:")+" "+ValueStyle.Render(res.PersistPath))
	case res.PersistPath != "":
		lines = append(lines, LabelStyle.Render("Persisted:")+" "+MutedStyle.Render(res.PersistPath+" already up to date"))
	}

	switch {
	case res.UnitError != "":
		lines = append(lines, ErrorStyle.Render("Boot unit not installed: "+res.UnitError))
	case res.Unit != nil:
		state := "enabled"
		if !res.Unit.Enabled {
			state = "written, not enabled"
		}
		lines = append(lines, LabelStyle.Render("Boot unit:")+" "+ValueStyle.Render(res.Unit.Path)+" "+MutedStyle.Render("("+state+")"))
	}

	if res.Mode == tuner.ModeApply && s.Failed == 0 {
		lines = append(lines, MutedStyle.Render("Reboot, then run 'host-tuner verify' to confirm."))
	}
	return FooterBox.Render(strings.Join(lines, "\n"))
}

func header(title, iface, profile, host string) string {
	lines := []string{TitleStyle.Render("host-tuner " + title)}
	parts := []string{
		LabelStyle.Render("Interface:") + " " + ValueStyle.Render(iface),
		LabelStyle.Render("Profile:") + " " + ValueStyle.Render(profile),
	}
	if host != "" {
		parts = append(parts, LabelStyle.Render("Host:")+" "+ValueStyle.Render(host))
	}
	lines = append(lines, strings.Join(parts, "  "))
	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func statusTag(status string) string {
	tag := "[" + strings.ToUpper(status) + "]"
	tag = pad(tag, len("[UNSUPPORTED]"))
	switch status {
	case string(validator.StatusPass), string(tuner.StatusChanged), string(tuner.StatusUnchanged):
		return SuccessStyle.Render(tag)
	case string(validator.StatusWarn), string(tuner.StatusUnsupported), string(tuner.StatusPlanned):
		return WarningStyle.Render(tag)
	default:
		return ErrorStyle.Render(tag)
	}
}
