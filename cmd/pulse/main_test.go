package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/kamilpajak/pulse/internal/projects"
	"github.com/kamilpajak/pulse/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

const sampleReport = `{
  "suites": [{
    "title": "checkout.spec.ts",
    "file": "checkout.spec.ts",
    "specs": [
      {"id": "a", "title": "pays with card", "tests": [{"projectName": "chromium", "results": [{"status": "passed", "duration": 1500}]}]},
      {"id": "b", "title": "pays with pix", "tests": [{"projectName": "chromium", "results": [
        {"status": "failed", "duration": 900, "error": {"message": "expected 200\nreceived 500"}},
        {"status": "failed", "duration": 800}
      ]}]},
      {"id": "c", "title": "applies coupon", "tests": [{"projectName": "chromium", "results": [
        {"status": "timedOut", "duration": 30000},
        {"status": "passed", "duration": 1200}
      ]}]}
    ]
  }]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleReport), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	reportJSON, reportProject, reportBranch = false, "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPrintReport(t *testing.T) {
	report := &models.Report{
		Stats:    models.Statistics{Total: 3, Passed: 1, Failed: 1, Flaky: 1, DurationMS: 65_400},
		PassRate: 33,
		Health:   models.HealthUnstable,
		Tests: []models.Test{
			{FullTitle: "checkout › pays with pix", Status: models.StatusFailed, ErrorMessage: "expected 200\nreceived 500"},
			{FullTitle: "checkout › applies coupon", Status: models.StatusFlaky, Retries: 1},
		},
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "HEALTH UNSTABLE")
	assert.Contains(t, out, "Tests: 3  Passed: 1  Failed: 1  Flaky: 1  Skipped: 0")
	assert.Contains(t, out, "Pass rate: 33%  Duration: 1m5s")
	assert.Contains(t, out, "✗ checkout › pays with pix")
	assert.Contains(t, out, "    expected 200\n")
	assert.NotContains(t, out, "received 500")
	assert.Contains(t, out, "~ checkout › applies coupon (1 retries)")
}

func TestPrintReportAllPassing(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &models.Report{
		Stats:  models.Statistics{Total: 1, Passed: 1},
		Health: models.HealthPassing,
	})
	assert.Contains(t, buf.String(), "HEALTH PASSING")
	assert.NotContains(t, buf.String(), "FAILED")
	assert.NotContains(t, buf.String(), "FLAKY")
}

func TestPrintProjects(t *testing.T) {
	var buf bytes.Buffer
	printProjects(&buf, projects.HydrateResult{
		Items: []models.ProjectInfo{{
			Name: "Consulta", PassRate: 96, Coverage: 82, TotalRunsThisWeek: 18,
			Branches: []models.BranchInfo{
				{Name: "develop", Status: models.HealthPassing, PassedScenarios: 179, TotalScenarios: 184, LastCommit: "chore: mocks"},
			},
		}},
		Warnings: []string{"Pesquisa: failed to list branches: boom"},
	})
	out := buf.String()

	assert.Contains(t, out, "Consulta  pass rate 96%  coverage 82%  runs this week 18")
	assert.Contains(t, out, "passing")
	assert.Contains(t, out, "179/184")
	assert.Contains(t, out, "Warning: Pesquisa: failed to list branches: boom")
}

func TestReportCommandLocalFile(t *testing.T) {
	out, err := execute(t, "report", writeSample(t))
	require.NoError(t, err)
	assert.Contains(t, out, "HEALTH UNSTABLE")
	assert.Contains(t, out, "Tests: 3  Passed: 1  Failed: 1  Flaky: 1")
	assert.Contains(t, out, "expected 200")
}

func TestReportCommandJSON(t *testing.T) {
	out, err := execute(t, "report", writeSample(t), "--json")
	require.NoError(t, err)

	var report models.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Stats.Total)
	assert.Equal(t, models.HealthUnstable, report.Health)
}

func TestReportCommandRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reports/consulta/develop/report.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleReport))
	}))
	defer srv.Close()

	out, err := execute(t, "report", "--project", "consulta", "--branch", "develop", "--reports-base-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "HEALTH UNSTABLE")

	_, err = execute(t, "report", "--project", "consulta", "--branch", "release", "--reports-base-url", srv.URL)
	assert.ErrorIs(t, err, errNoReport)

	_, err = execute(t, "report", "--project", "unknown", "--branch", "develop", "--reports-base-url", srv.URL)
	assert.ErrorContains(t, err, "unknown project")
}

func TestReportCommandNeedsTarget(t *testing.T) {
	_, err := execute(t, "report")
	assert.ErrorContains(t, err, "give a report file")
}

func TestMigrateCommandNeedsDatabase(t *testing.T) {
	t.Setenv("PULSE_DATABASE_URL", "")
	_, err := execute(t, "migrate")
	assert.ErrorIs(t, err, errNoDatabase)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pulse dev")
	assert.Contains(t, out, "commit: none")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", formatDuration(0))
	assert.Equal(t, "1m5s", formatDuration(65_400))
	assert.Equal(t, "2s", formatDuration(1_500))
}
