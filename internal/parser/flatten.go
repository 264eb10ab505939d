package parser

import (
	"strconv"
	"strings"

	"github.com/kamilpajak/pulse/pkg/models"
)

const (
	scenarioFallbackPrefix = "Cenário "
	specFallbackTitle      = "Spec sem nome"
	projectSegmentPrefix   = "Projeto "
)

// collectSpecs walks the suite forest depth-first. A suite's own specs are
// emitted before the specs of its child suites, and only titled suites
// extend the path handed to their children.
func collectSpecs(suites []playwrightSuite, parents []string) []models.Spec {
	var specs []models.Spec

	for _, suite := range suites {
		suitePath := extendPath(parents, suite.Title)

		for i, spec := range suite.Specs {
			specs = append(specs, buildSpec(spec, suitePath, i))
		}

		if len(suite.Suites) > 0 {
			specs = append(specs, collectSpecs(suite.Suites, suitePath)...)
		}
	}

	return specs
}

// extendPath returns a new path with title appended. The parent slice is
// never modified, so sibling branches cannot observe each other's segments.
func extendPath(parents []string, title string) []string {
	if title == "" {
		return parents
	}
	path := make([]string, len(parents), len(parents)+1)
	copy(path, parents)
	return append(path, title)
}

func buildSpec(raw playwrightSpec, suitePath []string, specIndex int) models.Spec {
	path := specPath(suitePath, raw.File)
	id := specIdentity(raw.ID, path, specIndex)

	tests := make([]models.Test, 0, len(raw.Tests))
	for i, t := range raw.Tests {
		tests = append(tests, buildTest(raw, t, path, id, specIndex, i))
	}

	return models.Spec{
		ID:     id,
		Title:  specDisplayTitle(raw),
		File:   raw.File,
		Line:   raw.Line,
		Column: raw.Column,
		Path:   path,
		Tests:  tests,
	}
}

func buildTest(spec playwrightSpec, raw playwrightTest, path []string, specID string, specIndex, testIndex int) models.Test {
	attempts := make([]models.Attempt, 0, len(raw.Results))
	var duration float64
	for _, a := range raw.Results {
		attempt := normalizeAttempt(a)
		duration += attempt.DurationMS
		attempts = append(attempts, attempt)
	}

	scenario := scenarioTitle(spec, specIndex)

	return models.Test{
		ID:           testIdentity(raw.ProjectID, raw.ProjectName, specID, testIndex),
		Title:        testTitle(raw, scenario),
		FullTitle:    fullTitle(path, scenario, raw.ProjectName),
		Status:       ResolveTestStatus(attemptStatuses(raw.Results)),
		DurationMS:   duration,
		Retries:      max(0, len(raw.Results)-1),
		ErrorMessage: firstErrorMessage(raw.Results),
		SpecID:       specID,
		SpecTitle:    spec.Title,
		SpecFile:     spec.File,
		SpecLine:     spec.Line,
		SpecColumn:   spec.Column,
		Path:         path,
		ProjectName:  raw.ProjectName,
		ProjectID:    raw.ProjectID,
		Attempts:     attempts,
	}
}

// specPath falls back to the spec's file when no ancestor suite has a title.
func specPath(suitePath []string, file string) []string {
	if len(suitePath) > 0 {
		return suitePath
	}
	if file != "" {
		return []string{file}
	}
	return []string{}
}

// scenarioTitle prefers the spec title, then its file, then a positional name.
func scenarioTitle(spec playwrightSpec, specIndex int) string {
	if spec.Title != "" {
		return spec.Title
	}
	if spec.File != "" {
		return spec.File
	}
	return scenarioFallbackPrefix + strconv.Itoa(specIndex+1)
}

func specDisplayTitle(spec playwrightSpec) string {
	if spec.Title != "" {
		return spec.Title
	}
	if spec.File != "" {
		return spec.File
	}
	return specFallbackTitle
}

func testTitle(raw playwrightTest, scenario string) string {
	if title := strings.TrimSpace(raw.Title); title != "" {
		return title
	}
	return scenario
}

func fullTitle(path []string, scenario, projectName string) string {
	parts := make([]string, 0, len(path)+2)
	parts = append(parts, path...)
	parts = append(parts, scenario)
	if projectName != "" {
		parts = append(parts, projectSegmentPrefix+projectName)
	}
	return strings.Join(parts, pathSeparator)
}

// flattenTests returns every test of every spec in spec order.
func flattenTests(specs []models.Spec) []models.Test {
	var tests []models.Test
	for _, spec := range specs {
		tests = append(tests, spec.Tests...)
	}
	return tests
}
