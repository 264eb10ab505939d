package history

import (
	"fmt"
	"testing"

	"github.com/kamilpajak/pulse/pkg/models"
	"github.com/stretchr/testify/assert"
)

func run(day int, passRate, minutes int, status models.Health) models.BranchRun {
	return models.BranchRun{
		ExecutedAt:      fmt.Sprintf("2025-12-%02dT10:00:00Z", day),
		PassRate:        passRate,
		DurationMinutes: minutes,
		Status:          status,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarizeSingleRun(t *testing.T) {
	got := Summarize([]models.BranchRun{run(14, 97, 36, models.HealthPassing)})
	assert.Equal(t, Summary{
		Runs:               1,
		MeanPassRate:       97,
		MedianPassRate:     97,
		P90DurationMinutes: 36,
		Latest:             models.HealthPassing,
		Streak:             1,
	}, got)
}

func TestSummarize(t *testing.T) {
	// Given out of order: the newest run decides the verdict.
	runs := []models.BranchRun{
		run(3, 70, 30, models.HealthFailing),
		run(10, 100, 100, models.HealthPassing),
		run(1, 90, 10, models.HealthUnstable),
		run(9, 95, 90, models.HealthPassing),
		run(2, 80, 20, models.HealthUnstable),
		run(8, 99, 80, models.HealthUnstable),
		run(4, 85, 40, models.HealthPassing),
		run(5, 90, 50, models.HealthPassing),
		run(6, 92, 60, models.HealthPassing),
		run(7, 96, 70, models.HealthPassing),
	}

	got := Summarize(runs)
	assert.Equal(t, 10, got.Runs)
	assert.Equal(t, 89.7, got.MeanPassRate)
	assert.Equal(t, 91.0, got.MedianPassRate)
	assert.Equal(t, 90.0, got.P90DurationMinutes)
	assert.Equal(t, models.HealthPassing, got.Latest)
	assert.Equal(t, 2, got.Streak)
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	runs := []models.BranchRun{
		run(1, 90, 10, models.HealthPassing),
		run(2, 80, 20, models.HealthUnstable),
	}
	Summarize(runs)
	assert.Equal(t, "2025-12-01T10:00:00Z", runs[0].ExecutedAt)
}
