// Copyright 2025 Poiesic Systems
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


package review

import "github.com/poiesic/corpora/core"

// Escalation thresholds for the overall severity of a report.
const (
	highCountThreshold   = 5
	mediumCountThreshold = 2
)

// Report is the aggregated outcome of one content review.
type Report struct {
	// Issues is the deduplicated union of heuristic and model findings,
	// heuristic findings first, in original order.
	Issues []core.AnalysisIssue

	// Severity is the escalated overall severity of the report.
	Severity core.Severity

	// Degraded reports that model analysis failed and the report was
	// built from heuristic findings alone.
	Degraded bool
}

// Aggregate unions heuristic and model findings, drops duplicates, and
// derives the overall severity.
//
// Duplicates are detected by (current text, location); the first occurrence
// wins, so heuristic findings shadow model findings that point at the same
// text. Severity checks run high before medium so the aggregate can never
// under-report the worst individual finding:
//
//   - any high-severity issue, any high or immediate priority, or more
//     than 5 unique issues ⇒ high
//   - otherwise any medium-severity issue or more than 2 unique issues ⇒ medium
//   - otherwise ⇒ low
func Aggregate(heuristic, model []core.AnalysisIssue) *Report {
	seen := make(map[uint64]struct{}, len(heuristic)+len(model))
	unique := make([]core.AnalysisIssue, 0, len(heuristic)+len(model))

	for _, list := range [][]core.AnalysisIssue{heuristic, model} {
		for _, issue := range list {
			key := issue.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			unique = append(unique, issue)
		}
	}

	return &Report{
		Issues:   unique,
		Severity: overallSeverity(unique),
	}
}

// FallbackReport builds a report from heuristic findings alone, used when
// model analysis fails entirely. Severity is high if anything was found at
// all and low otherwise; without the model's judgment the review refuses
// to rank what it found.
func FallbackReport(heuristic []core.AnalysisIssue) *Report {
	severity := core.SeverityLow
	if len(heuristic) > 0 {
		severity = core.SeverityHigh
	}
	return &Report{
		Issues:   heuristic,
		Severity: severity,
		Degraded: true,
	}
}

func overallSeverity(issues []core.AnalysisIssue) core.Severity {
	anyMedium := false
	for i := range issues {
		if issues[i].Severity == core.SeverityHigh ||
			issues[i].Priority == core.PriorityImmediate ||
			issues[i].Priority == core.PriorityHigh {
			return core.SeverityHigh
		}
		if issues[i].Severity == core.SeverityMedium {
			anyMedium = true
		}
	}
	if len(issues) > highCountThreshold {
		return core.SeverityHigh
	}
	if anyMedium || len(issues) > mediumCountThreshold {
		return core.SeverityMedium
	}
	return core.SeverityLow
}
