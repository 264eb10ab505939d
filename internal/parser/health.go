package parser

import "github.com/kamilpajak/pulse/pkg/models"

// ClassifyHealth maps report statistics to a branch health verdict.
// It depends only on the given snapshot.
func ClassifyHealth(stats models.Statistics) models.Health {
	if stats.Failed == 0 && stats.Unexpected == 0 {
		return models.HealthPassing
	}
	if stats.Passed > 0 {
		return models.HealthUnstable
	}
	return models.HealthFailing
}
