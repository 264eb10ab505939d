package parser

import "github.com/kamilpajak/pulse/pkg/models"

// ResolveTestStatus derives the status of a test from all of its attempts.
//
// A test that failed and later passed on retry is flaky, not passed, so the
// result never depends on the last attempt alone.
func ResolveTestStatus(statuses []models.AttemptStatus) models.TestStatus {
	if len(statuses) == 0 {
		return models.StatusSkipped
	}

	var hasFailed, hasPassed bool
	for _, s := range statuses {
		switch {
		case s.IsFailureLike():
			hasFailed = true
		case s == models.AttemptPassed:
			hasPassed = true
		}
	}

	switch {
	case hasFailed && hasPassed:
		return models.StatusFlaky
	case hasFailed:
		return models.StatusFailed
	case hasPassed:
		return models.StatusPassed
	default:
		return models.StatusSkipped
	}
}

func attemptStatuses(attempts []playwrightAttempt) []models.AttemptStatus {
	statuses := make([]models.AttemptStatus, len(attempts))
	for i, a := range attempts {
		statuses[i] = a.Status
	}
	return statuses
}

// firstErrorMessage returns the first error message found scanning the
// attempts in order: the singular error first, then the error list.
func firstErrorMessage(attempts []playwrightAttempt) string {
	for _, a := range attempts {
		if a.Error != nil && deref(a.Error.Message) != "" {
			return *a.Error.Message
		}
		for _, e := range a.Errors {
			if msg := deref(e.Message); msg != "" {
				return msg
			}
		}
	}
	return ""
}
