package models

// AttemptStatus is the raw status of a single test execution.
type AttemptStatus string

const (
	AttemptPassed      AttemptStatus = "passed"
	AttemptFailed      AttemptStatus = "failed"
	AttemptTimedOut    AttemptStatus = "timedOut"
	AttemptSkipped     AttemptStatus = "skipped"
	AttemptInterrupted AttemptStatus = "interrupted"
	AttemptCrashed     AttemptStatus = "crashed"
)

// Valid reports whether s is one of the known attempt statuses.
func (s AttemptStatus) Valid() bool {
	switch s {
	case AttemptPassed, AttemptFailed, AttemptTimedOut, AttemptSkipped, AttemptInterrupted, AttemptCrashed:
		return true
	}
	return false
}

// IsFailureLike returns true for statuses that count as a failed execution.
func (s AttemptStatus) IsFailureLike() bool {
	switch s {
	case AttemptFailed, AttemptTimedOut, AttemptInterrupted, AttemptCrashed:
		return true
	}
	return false
}

// TestStatus represents the resolved status of a test across all its attempts
type TestStatus string

const (
	StatusPassed  TestStatus = "passed"
	StatusFailed  TestStatus = "failed"
	StatusFlaky   TestStatus = "flaky"
	StatusSkipped TestStatus = "skipped"
)

// Health is the branch-level verdict derived from report statistics.
type Health string

const (
	HealthPassing  Health = "passing"
	HealthUnstable Health = "unstable"
	HealthFailing  Health = "failing"
)

// Attachment is a file captured during an attempt.
type Attachment struct {
	Name        string `json:"name"`
	Path        string `json:"path,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// ErrorDetail is a single error raised during an attempt.
type ErrorDetail struct {
	Message string `json:"message,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// Attempt is one execution of a test.
type Attempt struct {
	Status        AttemptStatus `json:"status"`
	DurationMS    float64       `json:"durationMs"`
	Stdout        []string      `json:"stdout"`
	Stderr        []string      `json:"stderr"`
	Attachments   []Attachment  `json:"attachments"`
	Errors        []ErrorDetail `json:"errors"`
	WorkerIndex   *int          `json:"workerIndex,omitempty"`
	ParallelIndex *int          `json:"parallelIndex,omitempty"`
	StartTime     string        `json:"startTime,omitempty"`
}

// Test represents a single test with all of its attempts
type Test struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	FullTitle    string     `json:"fullTitle"`
	Status       TestStatus `json:"status"`
	DurationMS   float64    `json:"durationMs"`
	Retries      int        `json:"retries"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	SpecID       string     `json:"specId"`
	SpecTitle    string     `json:"specTitle,omitempty"`
	SpecFile     string     `json:"specFile,omitempty"`
	SpecLine     *int       `json:"specLine,omitempty"`
	SpecColumn   *int       `json:"specColumn,omitempty"`
	Path         []string   `json:"path"`
	ProjectName  string     `json:"projectName,omitempty"`
	ProjectID    string     `json:"projectId,omitempty"`
	Attempts     []Attempt  `json:"attempts"`
}

// Spec groups the tests declared at one source location
type Spec struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	File   string   `json:"file,omitempty"`
	Line   *int     `json:"line,omitempty"`
	Column *int     `json:"column,omitempty"`
	Path   []string `json:"path"`
	Tests  []Test   `json:"tests"`
}

// Statistics aggregates the tests of one report.
type Statistics struct {
	Total      int     `json:"total"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	Flaky      int     `json:"flaky"`
	Skipped    int     `json:"skipped"`
	Unexpected int     `json:"unexpected"`
	DurationMS float64 `json:"duration"`
}

// PassRate returns the percentage of passed tests, rounded to an integer.
func (s Statistics) PassRate() int {
	if s.Total == 0 {
		return 0
	}
	return int((float64(s.Passed)/float64(s.Total))*100 + 0.5)
}

// Report represents a normalized test report
type Report struct {
	Stats    Statistics `json:"stats"`
	Tests    []Test     `json:"tests"`
	Specs    []Spec     `json:"specs"`
	PassRate int        `json:"passRate"`
	Health   Health     `json:"health"`
}

// HasFailures returns true if the report contains any failures
func (r *Report) HasFailures() bool {
	return r.Stats.Failed > 0
}

// FailedTests returns all tests whose attempts never passed.
func (r *Report) FailedTests() []Test {
	return r.testsWithStatus(StatusFailed)
}

// FlakyTests returns all tests that both failed and passed across retries.
func (r *Report) FlakyTests() []Test {
	return r.testsWithStatus(StatusFlaky)
}

// FindTest looks a test up by its identity.
func (r *Report) FindTest(id string) (Test, bool) {
	for _, t := range r.Tests {
		if t.ID == id {
			return t, true
		}
	}
	return Test{}, false
}

func (r *Report) testsWithStatus(status TestStatus) []Test {
	var matched []Test
	for _, t := range r.Tests {
		if t.Status == status {
			matched = append(matched, t)
		}
	}
	return matched
}
