package parser

import (
	"math"

	"github.com/kamilpajak/pulse/pkg/models"
)

// buildStatistics folds the flat test list into report statistics.
//
// Status counts always come from the tests. The raw summary only supplies
// duration and the unexpected count when it carries them.
func buildStatistics(raw *playwrightStats, tests []models.Test) (models.Statistics, error) {
	if len(tests) == 0 {
		return models.Statistics{}, ErrNoReportData
	}

	var stats models.Statistics
	var duration float64
	for _, t := range tests {
		stats.Total++
		duration += t.DurationMS

		switch t.Status {
		case models.StatusPassed:
			stats.Passed++
		case models.StatusFailed:
			stats.Failed++
		case models.StatusFlaky:
			stats.Flaky++
		default:
			stats.Skipped++
		}
	}

	stats.Unexpected = summaryUnexpected(raw, stats.Failed)
	stats.DurationMS = summaryDuration(raw, duration)
	return stats, nil
}

func summaryUnexpected(raw *playwrightStats, computed int) int {
	if raw != nil && raw.Unexpected != nil {
		return *raw.Unexpected
	}
	return computed
}

func summaryDuration(raw *playwrightStats, computed float64) float64 {
	if raw != nil && raw.Duration != nil {
		return math.Round(*raw.Duration)
	}
	return computed
}
