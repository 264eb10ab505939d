package projects

import (
	"math"
	"time"

	"github.com/kamilpajak/pulse/pkg/models"
)

const week = 7 * 24 * time.Hour

// DurationMinutes converts a millisecond duration to whole minutes, never
// reporting less than one minute.
func DurationMinutes(durationMS float64) int {
	return max(1, int(math.Round(durationMS/60000)))
}

// BuildRunFromStats describes the latest report of a branch as a run.
func BuildRunFromStats(stats models.Statistics, health models.Health, branch models.BranchInfo) models.BranchRun {
	return models.BranchRun{
		ID:              branch.ID + "-" + branch.UpdatedAt,
		ExecutedAt:      branch.UpdatedAt,
		PassRate:        stats.PassRate(),
		DurationMinutes: DurationMinutes(stats.DurationMS),
		TotalScenarios:  stats.Total,
		FailedScenarios: stats.Failed,
		Status:          health,
	}
}

// applyReport overwrites the branch's figures with those of its latest report.
func applyReport(branch models.BranchInfo, report *models.Report) models.BranchInfo {
	run := BuildRunFromStats(report.Stats, report.Health, branch)

	branch.Status = report.Health
	branch.TotalScenarios = report.Stats.Total
	branch.PassedScenarios = report.Stats.Passed
	branch.DurationMinutes = run.DurationMinutes
	branch.Runs = []models.BranchRun{run}
	return branch
}

// ApplyProjectMetrics recomputes the project's aggregate figures from its
// branches. Figures that cannot be derived keep their static values.
func ApplyProjectMetrics(project models.ProjectInfo, branches []models.BranchInfo, now time.Time) models.ProjectInfo {
	project.Branches = branches
	if len(branches) == 0 {
		return project
	}

	var total, passed, withStats, runsThisWeek int
	latestAt := project.LastRunAt
	latest, _ := parseTimestamp(project.LastRunAt)

	for _, b := range branches {
		total += b.TotalScenarios
		passed += b.PassedScenarios
		if b.TotalScenarios > 0 {
			withStats++
		}

		if updated, ok := parseTimestamp(b.UpdatedAt); ok && updated.After(latest) {
			latest = updated
			latestAt = b.UpdatedAt
		}

		for _, run := range b.Runs {
			if executed, ok := parseTimestamp(run.ExecutedAt); ok && now.Sub(executed) <= week {
				runsThisWeek++
			}
		}
	}

	if total > 0 {
		project.PassRate = int(math.Round(float64(passed) / float64(total) * 100))
	}
	project.Coverage = int(math.Round(float64(withStats) / float64(len(branches)) * 100))
	if runsThisWeek > 0 {
		project.TotalRunsThisWeek = runsThisWeek
	}
	project.LastRunAt = latestAt
	return project
}

func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
