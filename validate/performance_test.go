package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/tmplvet/graph"
)

func TestRunPerformance_WithinThresholds(t *testing.T) {
	stats := graph.Stats{Documents: 10, Edges: 20, MaxInDegree: 3, MaxDepth: 2}

	result := runPerformance(stats, DefaultThresholds())
	assert.Equal(t, StatusPass, result.Status)
	assert.Equal(t, GraphDocID, result.DocID)
	assert.Empty(t, result.Issues)
}

func TestRunPerformance_OutOfThresholdIsWarningNeverFail(t *testing.T) {
	stats := graph.Stats{
		Documents:       1000,
		Edges:           5000,
		MaxInDegree:     100,
		MaxInDegreeNode: "style",
		MaxDepth:        40,
	}

	result := runPerformance(stats, DefaultThresholds())
	assert.Equal(t, StatusWarning, result.Status)
	require.Len(t, result.Issues, 4)
	for _, issue := range result.Issues {
		assert.Equal(t, SeverityWarning, issue.Severity)
	}
	assert.Contains(t, result.Issues[2].Message, `"style"`)
}

func TestRunPerformance_ZeroThresholdDisablesCheck(t *testing.T) {
	stats := graph.Stats{Documents: 1000000}

	result := runPerformance(stats, Thresholds{})
	assert.Equal(t, StatusPass, result.Status)
}
