package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kamilpajak/pulse/pkg/models"
)

var (
	// ErrNoReportData is returned when a report flattens to zero tests.
	// An empty report is treated like a missing one, never as an all-zero result.
	ErrNoReportData = errors.New("report contains no tests")

	// ErrUnknownAttemptStatus is returned when an attempt carries a status
	// outside the six known literals.
	ErrUnknownAttemptStatus = errors.New("unknown attempt status")
)

// PlaywrightParser parses Playwright JSON reports.
// It holds no state and is safe for concurrent use.
type PlaywrightParser struct{}

// playwrightReport represents the raw Playwright JSON structure
type playwrightReport struct {
	Stats  *playwrightStats  `json:"stats"`
	Suites []playwrightSuite `json:"suites"`
}

type playwrightStats struct {
	Expected   *int     `json:"expected"`
	Skipped    *int     `json:"skipped"`
	Unexpected *int     `json:"unexpected"`
	Flaky      *int     `json:"flaky"`
	Duration   *float64 `json:"duration"`
}

type playwrightSuite struct {
	Title  string            `json:"title"`
	File   string            `json:"file"`
	Line   *int              `json:"line"`
	Column *int              `json:"column"`
	Suites []playwrightSuite `json:"suites"`
	Specs  []playwrightSpec  `json:"specs"`
}

type playwrightSpec struct {
	ID     string           `json:"id"`
	Title  string           `json:"title"`
	File   string           `json:"file"`
	Line   *int             `json:"line"`
	Column *int             `json:"column"`
	OK     *bool            `json:"ok"`
	Tags   []string         `json:"tags"`
	Tests  []playwrightTest `json:"tests"`
}

type playwrightTest struct {
	Title          string              `json:"title"`
	ExpectedStatus string              `json:"expectedStatus"`
	ProjectID      string              `json:"projectId"`
	ProjectName    string              `json:"projectName"`
	Results        []playwrightAttempt `json:"results"`
}

// playwrightAttempt and the types below it decode leniently (see decode.go):
// a wrongly typed optional field keeps its zero value.
type playwrightAttempt struct {
	Status        models.AttemptStatus
	Duration      *float64
	Error         *playwrightError
	Errors        []playwrightError
	Stdout        []playwrightStdEntry
	Stderr        []playwrightStdEntry
	Attachments   []playwrightAttachment
	WorkerIndex   *int
	ParallelIndex *int
	Retry         *int
	StartTime     string
}

type playwrightError struct {
	Message *string
	Value   *string
	Stack   *string
}

type playwrightStdEntry struct {
	Text *string
}

type playwrightAttachment struct {
	Name        string
	ContentType string
	Path        string
}

// Parse reads and parses a Playwright JSON report file
func (p *PlaywrightParser) Parse(path string) (*models.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	return p.ParseBytes(data)
}

// ParseBytes parses Playwright JSON from raw bytes
func (p *PlaywrightParser) ParseBytes(data []byte) (*models.Report, error) {
	var raw playwrightReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	if err := validateStatuses(raw.Suites); err != nil {
		return nil, err
	}

	return p.normalize(raw)
}

func (p *PlaywrightParser) normalize(raw playwrightReport) (*models.Report, error) {
	specs := collectSpecs(raw.Suites, nil)
	dedupeTestIDs(specs)

	tests := flattenTests(specs)
	stats, err := buildStatistics(raw.Stats, tests)
	if err != nil {
		return nil, err
	}

	return &models.Report{
		Stats:    stats,
		Tests:    tests,
		Specs:    specs,
		PassRate: stats.PassRate(),
		Health:   ClassifyHealth(stats),
	}, nil
}

// validateStatuses rejects the whole document when any attempt status is
// missing or unknown.
func validateStatuses(suites []playwrightSuite) error {
	for _, suite := range suites {
		for _, spec := range suite.Specs {
			for _, test := range spec.Tests {
				for i, attempt := range test.Results {
					if !attempt.Status.Valid() {
						return fmt.Errorf("%w %q (spec %q, attempt %d)",
							ErrUnknownAttemptStatus, attempt.Status, specLabel(spec), i)
					}
				}
			}
		}
		if err := validateStatuses(suite.Suites); err != nil {
			return err
		}
	}
	return nil
}

func specLabel(spec playwrightSpec) string {
	if spec.Title != "" {
		return spec.Title
	}
	if spec.ID != "" {
		return spec.ID
	}
	return spec.File
}
