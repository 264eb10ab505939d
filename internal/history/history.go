// Package history summarizes the stored runs of a branch.
package history

import (
	"cmp"
	"slices"
	"time"

	"github.com/kamilpajak/pulse/pkg/models"
	"github.com/montanaflynn/stats"
)

// Summary describes the trend of a branch over its recorded runs.
type Summary struct {
	Runs               int           `json:"runs"`
	MeanPassRate       float64       `json:"meanPassRate"`
	MedianPassRate     float64       `json:"medianPassRate"`
	P90DurationMinutes float64       `json:"p90DurationMinutes"`
	Latest             models.Health `json:"latest,omitempty"`
	// Streak counts consecutive runs, newest first, sharing Latest's verdict.
	Streak int `json:"streak"`
}

// Summarize computes the trend of runs given in any order.
func Summarize(runs []models.BranchRun) Summary {
	if len(runs) == 0 {
		return Summary{}
	}

	ordered := slices.Clone(runs)
	slices.SortStableFunc(ordered, func(a, b models.BranchRun) int {
		return cmp.Compare(executedAt(b).UnixNano(), executedAt(a).UnixNano())
	})

	passRates := make(stats.Float64Data, 0, len(ordered))
	durations := make(stats.Float64Data, 0, len(ordered))
	for _, r := range ordered {
		passRates = append(passRates, float64(r.PassRate))
		durations = append(durations, float64(r.DurationMinutes))
	}

	// Inputs are non-empty so the stats errors can be ignored.
	mean, _ := stats.Mean(passRates)
	median, _ := stats.Median(passRates)
	p90, _ := stats.Percentile(durations, 90)

	summary := Summary{
		Runs:               len(ordered),
		MeanPassRate:       round(mean),
		MedianPassRate:     round(median),
		P90DurationMinutes: round(p90),
		Latest:             ordered[0].Status,
	}
	for _, r := range ordered {
		if r.Status != summary.Latest {
			break
		}
		summary.Streak++
	}
	return summary
}

func executedAt(run models.BranchRun) time.Time {
	t, err := time.Parse(time.RFC3339, run.ExecutedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

func round(v float64) float64 {
	r, err := stats.Round(v, 1)
	if err != nil {
		return v
	}
	return r
}
