package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/corpora/ai"
	"github.com/poiesic/corpora/ai/mock"
	"github.com/poiesic/corpora/core"
)

func TestNewReviewerRequiresAnalyzer(t *testing.T) {
	_, err := NewReviewer(nil)
	assert.ErrorIs(t, err, ErrAnalyzerRequired)
}

func TestScanFindsRuleMatches(t *testing.T) {
	text := "Intro line.\nOur product is 100% guaranteed to work.\napi_key = sk-abc123\n"

	issues := Scan(text, DefaultRules())

	require.Len(t, issues, 2)
	assert.Equal(t, "claim", issues[0].Type)
	assert.Equal(t, "line 2", issues[0].Location)
	assert.Equal(t, "credential", issues[1].Type)
	assert.Equal(t, core.SeverityHigh, issues[1].Severity)
	assert.Equal(t, "line 3", issues[1].Location)
}

func TestScanCleanText(t *testing.T) {
	assert.Empty(t, Scan("Nothing wrong with this document at all.", DefaultRules()))
}

func TestReviewMergesHeuristicAndModelFindings(t *testing.T) {
	analyzer := mock.NewMockAnalyzer()
	analyzer.AnalyzeContentFunc = func(ctx context.Context, text string) ([]ai.Finding, error) {
		return []ai.Finding{
			{
				Type:        "terminology",
				Description: "inconsistent product name",
				Severity:    "medium",
				Current:     "WidgetPro",
				Location:    "line 1",
				Priority:    "low",
			},
		}, nil
	}

	reviewer, err := NewReviewer(analyzer)
	require.NoError(t, err)

	report, err := reviewer.Review(context.Background(), "WidgetPro has a TODO section.")
	require.NoError(t, err)

	assert.False(t, report.Degraded)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, core.SeverityMedium, report.Severity)
}

func TestReviewHeuristicShadowsModelDuplicate(t *testing.T) {
	analyzer := mock.NewMockAnalyzer()
	analyzer.AnalyzeContentFunc = func(ctx context.Context, text string) ([]ai.Finding, error) {
		// Same text and location as the heuristic TODO finding.
		return []ai.Finding{
			{
				Type:        "model",
				Description: "model saw the same marker",
				Severity:    "high",
				Current:     "TODO",
				Location:    "line 1",
			},
		}, nil
	}

	reviewer, err := NewReviewer(analyzer)
	require.NoError(t, err)

	report, err := reviewer.Review(context.Background(), "TODO finish this")
	require.NoError(t, err)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "placeholder", report.Issues[0].Type, "heuristic finding wins")
}

func TestReviewDegradesOnModelFailure(t *testing.T) {
	analyzer := mock.NewMockAnalyzer()
	analyzer.AnalyzeContentFunc = func(ctx context.Context, text string) ([]ai.Finding, error) {
		return nil, ai.ErrService
	}

	reviewer, err := NewReviewer(analyzer)
	require.NoError(t, err)

	report, err := reviewer.Review(context.Background(), "there is a TODO here")
	require.NoError(t, err, "model failure is degradation, not error")

	assert.True(t, report.Degraded)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, core.SeverityHigh, report.Severity)
}

func TestReviewDegradedCleanText(t *testing.T) {
	analyzer := mock.NewMockAnalyzer()
	analyzer.AnalyzeContentFunc = func(ctx context.Context, text string) ([]ai.Finding, error) {
		return nil, ai.ErrService
	}

	reviewer, err := NewReviewer(analyzer)
	require.NoError(t, err)

	report, err := reviewer.Review(context.Background(), "perfectly clean text")
	require.NoError(t, err)

	assert.True(t, report.Degraded)
	assert.Empty(t, report.Issues)
	assert.Equal(t, core.SeverityLow, report.Severity)
}

func TestReviewUnknownModelLabels(t *testing.T) {
	analyzer := mock.NewMockAnalyzer()
	analyzer.AnalyzeContentFunc = func(ctx context.Context, text string) ([]ai.Finding, error) {
		return []ai.Finding{
			{Description: "weird labels", Severity: "catastrophic", Priority: "whenever", Location: "l1"},
		}, nil
	}

	reviewer, err := NewReviewer(analyzer)
	require.NoError(t, err)

	report, err := reviewer.Review(context.Background(), "clean")
	require.NoError(t, err)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, core.SeverityLow, report.Issues[0].Severity)
	assert.Equal(t, core.PriorityUnspecified, report.Issues[0].Priority)
}

func TestReviewWithCustomRules(t *testing.T) {
	reviewer, err := NewReviewer(mock.NewMockAnalyzer(), WithRules(nil))
	require.NoError(t, err)

	report, err := reviewer.Review(context.Background(), "a TODO that no rule catches")
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
}
