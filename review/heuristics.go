package review

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/corpora/core"
)

// Rule is a single heuristic pattern check applied line by line.
type Rule struct {
	Type        string
	Pattern     *regexp.Regexp
	Description string
	Severity    core.Severity
}

// DefaultRules returns the built-in heuristic rule set. These catch the
// mechanical problems a model does not need to judge: template leftovers,
// placeholder text, and credential-shaped strings.
func DefaultRules() []Rule {
	return []Rule{
		{
			Type:        "placeholder",
			Pattern:     regexp.MustCompile(`(?i)lorem ipsum`),
			Description: "placeholder text left in document",
			Severity:    core.SeverityLow,
		},
		{
			Type:        "placeholder",
			Pattern:     regexp.MustCompile(`(?i)\b(TBD|TODO|FIXME)\b`),
			Description: "unresolved placeholder marker",
			Severity:    core.SeverityLow,
		},
		{
			Type:        "template",
			Pattern:     regexp.MustCompile(`\{\{[^}]*\}\}`),
			Description: "unrendered template token",
			Severity:    core.SeverityMedium,
		},
		{
			Type:        "claim",
			Pattern:     regexp.MustCompile(`(?i)\b(100% (safe|effective|guaranteed)|risk.free|never fails)\b`),
			Description: "absolute claim likely to mislead",
			Severity:    core.SeverityMedium,
		},
		{
			Type:        "credential",
			Pattern:     regexp.MustCompile(`(?i)(api[_-]?key|secret|password)\s*[:=]\s*\S+`),
			Description: "credential-shaped value in document text",
			Severity:    core.SeverityHigh,
		},
	}
}

// Scan applies the rules to the text and reports one issue per rule match,
// located by line number. The same rule may fire on multiple lines.
func Scan(text string, rules []Rule) []core.AnalysisIssue {
	var issues []core.AnalysisIssue

	for lineNo, line := range strings.Split(text, "\n") {
		for _, rule := range rules {
			match := rule.Pattern.FindString(line)
			if match == "" {
				continue
			}
			issues = append(issues, core.AnalysisIssue{
				Type:        rule.Type,
				Description: rule.Description,
				Severity:    rule.Severity,
				Current:     match,
				Location:    "line " + strconv.Itoa(lineNo+1),
			})
		}
	}
	return issues
}
