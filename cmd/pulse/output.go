package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/kamilpajak/pulse/internal/projects"
	"github.com/kamilpajak/pulse/pkg/models"
	"github.com/mattn/go-isatty"
)

// startSpinner shows progress on stderr when it is a terminal. The returned
// function stops it.
func startSpinner(message string) func() {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		fmt.Fprintln(os.Stderr, message)
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	return s.Stop
}

func healthColor(h models.Health) *color.Color {
	switch h {
	case models.HealthPassing:
		return color.New(color.FgGreen)
	case models.HealthUnstable:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func printReport(w io.Writer, r *models.Report) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	_, _ = bold.Fprint(w, "HEALTH ")
	_, _ = healthColor(r.Health).Fprintln(w, strings.ToUpper(string(r.Health)))
	fmt.Fprintln(w)

	s := r.Stats
	fmt.Fprintf(w, "Tests: %d  Passed: %d  Failed: %d  Flaky: %d  Skipped: %d\n",
		s.Total, s.Passed, s.Failed, s.Flaky, s.Skipped)
	fmt.Fprintf(w, "Pass rate: %d%%  Duration: %s\n", r.PassRate, formatDuration(s.DurationMS))

	if failed := r.FailedTests(); len(failed) > 0 {
		fmt.Fprintln(w)
		_, _ = bold.Fprintln(w, "FAILED")
		for _, t := range failed {
			_, _ = color.New(color.FgRed).Fprint(w, "  ✗ ")
			fmt.Fprintln(w, t.FullTitle)
			if t.ErrorMessage != "" {
				_, _ = dim.Fprintf(w, "    %s\n", firstLine(t.ErrorMessage))
			}
		}
	}

	if flaky := r.FlakyTests(); len(flaky) > 0 {
		fmt.Fprintln(w)
		_, _ = bold.Fprintln(w, "FLAKY")
		for _, t := range flaky {
			_, _ = color.New(color.FgYellow).Fprint(w, "  ~ ")
			fmt.Fprintf(w, "%s", t.FullTitle)
			_, _ = dim.Fprintf(w, " (%d retries)\n", t.Retries)
		}
	}
}

func printProjects(w io.Writer, result projects.HydrateResult) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	for i, p := range result.Items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		_, _ = bold.Fprint(w, p.Name)
		_, _ = dim.Fprintf(w, "  pass rate %d%%  coverage %d%%  runs this week %d\n",
			p.PassRate, p.Coverage, p.TotalRunsThisWeek)

		for _, b := range p.Branches {
			_, _ = healthColor(b.Status).Fprintf(w, "  %-9s", b.Status)
			fmt.Fprintf(w, " %-32s %d/%d", b.Name, b.PassedScenarios, b.TotalScenarios)
			_, _ = dim.Fprintf(w, "  %s\n", b.LastCommit)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w)
		yellow := color.New(color.FgYellow)
		for _, warning := range result.Warnings {
			_, _ = yellow.Fprintf(w, "  Warning: %s\n", warning)
		}
	}
}

func formatDuration(ms float64) string {
	return time.Duration(ms * float64(time.Millisecond)).Round(time.Second).String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
