package review

import (
	"context"
	"log/slog"

	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/core"
)

// Reviewer runs the full content-review workflow: heuristic scan plus
// model analysis, aggregated into one report.
type Reviewer struct {
	analyzer ai.ContentAnalyzer
	rules    []Rule
	logger   *slog.Logger
}

// Option configures a Reviewer.
type Option func(*Reviewer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reviewer) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithRules replaces the built-in heuristic rule set.
func WithRules(rules []Rule) Option {
	return func(r *Reviewer) error {
		r.rules = rules
		return nil
	}
}

// NewReviewer creates a reviewer.
func NewReviewer(analyzer ai.ContentAnalyzer, opts ...Option) (*Reviewer, error) {
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	r := &Reviewer{
		analyzer: analyzer,
		rules:    DefaultRules(),
		logger:   slog.Default().With("component", "review"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Review scans the text heuristically, asks the model for its analysis,
// and aggregates both into one report. Model failure degrades to a
// heuristic-only report rather than failing the review; the report says
// so via Degraded.
func (r *Reviewer) Review(ctx context.Context, text string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	heuristic := Scan(text, r.rules)

	findings, err := r.analyzer.AnalyzeContent(ctx, text)
	if err != nil {
		r.logger.Warn("model analysis failed, reporting heuristic findings only", "err", err)
		return FallbackReport(heuristic), nil
	}

	model := make([]core.AnalysisIssue, 0, len(findings))
	for _, f := range findings {
		model = append(model, core.AnalysisIssue{
			Type:        f.Type,
			Description: f.Description,
			Severity:    core.ParseSeverity(f.Severity),
			Current:     f.Current,
			Suggested:   f.Suggested,
			Location:    f.Location,
			Priority:    core.ParsePriority(f.Priority),
		})
	}

	report := Aggregate(heuristic, model)
	r.logger.Info("content reviewed",
		"heuristic", len(heuristic),
		"model", len(model),
		"unique", len(report.Issues),
		"severity", report.Severity.String())

	return report, nil
}
