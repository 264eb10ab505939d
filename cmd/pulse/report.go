package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/kamilpajak/pulse/internal/parser"
	"github.com/kamilpajak/pulse/internal/projects"
	"github.com/kamilpajak/pulse/pkg/models"
	"github.com/spf13/cobra"
)

var (
	reportJSON    bool
	reportProject string
	reportBranch  string
)

var errNoReport = errors.New("no report published for this branch")

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Summarize a Playwright JSON report",
	Long: `Summarize a Playwright JSON report from a local file or from the
published reports of a project branch.

Examples:
  pulse report ./playwright-report/report.json
  pulse report --project consulta --branch develop
  pulse report ./report.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Output the normalized report as JSON")
	reportCmd.Flags().StringVar(&reportProject, "project", "", "Project id")
	reportCmd.Flags().StringVar(&reportBranch, "branch", "", "Branch name")
}

func runReport(cmd *cobra.Command, args []string) error {
	var (
		report *models.Report
		err    error
	)
	switch {
	case len(args) == 1:
		p := &parser.PlaywrightParser{}
		report, err = p.Parse(args[0])
	case reportProject != "" && reportBranch != "":
		report, err = fetchReport(cmd)
	default:
		return fmt.Errorf("give a report file or both --project and --branch")
	}
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), report, reportJSON)
}

func fetchReport(cmd *cobra.Command) (*models.Report, error) {
	svc, err := newProjectService(nil)
	if err != nil {
		return nil, err
	}

	stop := startSpinner(fmt.Sprintf("Fetching report for %s/%s...", reportProject, reportBranch))
	res, ok := svc.BranchReport(cmd.Context(), reportProject, reportBranch)
	stop()

	if !ok {
		return nil, fmt.Errorf("unknown project: %s", reportProject)
	}
	switch res.State {
	case projects.StateNoData:
		return nil, errNoReport
	case projects.StateFailed:
		return nil, fmt.Errorf("failed to fetch report: %w", res.Err)
	}
	return res.Report, nil
}

func writeReport(w io.Writer, report *models.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(w, report)
	return nil
}
