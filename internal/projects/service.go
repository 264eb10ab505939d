package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kamilpajak/pulse/internal/gitlab"
	"github.com/kamilpajak/pulse/internal/parser"
	"github.com/kamilpajak/pulse/pkg/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ReportState tags the outcome of fetching a branch report.
type ReportState string

const (
	StateData   ReportState = "data"
	StateNoData ReportState = "no_data"
	StateFailed ReportState = "failed"
)

// ReportResult is the outcome of fetching and normalizing one branch report.
// Report is set only for StateData and Err only for StateFailed.
type ReportResult struct {
	State  ReportState
	Report *models.Report
	Err    error
}

const missingTokenWarning = "Defina PULSE_GITLAB_TOKEN (e opcionalmente PULSE_GITLAB_API_URL) para sincronizar com o GitLab."

// BranchLister lists the branches of a remote repository.
type BranchLister interface {
	Configured() bool
	ListBranches(ctx context.Context, repoURL string) ([]gitlab.Branch, error)
}

// DocumentFetcher downloads published report documents.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, path string) ([]byte, error)
}

// RunRecorder stores hydrated branch runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, projectID, branchID string, run models.BranchRun) error
}

// Config configures a Service.
type Config struct {
	Directory []models.ProjectInfo
	Branches  BranchLister
	Documents DocumentFetcher
	// Runs is optional; when set every hydrated run is recorded.
	Runs RunRecorder
	// Concurrency caps simultaneous report fetches; zero means unlimited.
	Concurrency int
	Now         func() time.Time
}

// Service hydrates the project directory with live branch and report data.
type Service struct {
	directory   []models.ProjectInfo
	branches    BranchLister
	documents   DocumentFetcher
	runs        RunRecorder
	parser      *parser.PlaywrightParser
	concurrency int
	now         func() time.Time
}

// NewService creates a new hydration service.
func NewService(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		directory:   cfg.Directory,
		branches:    cfg.Branches,
		documents:   cfg.Documents,
		runs:        cfg.Runs,
		parser:      &parser.PlaywrightParser{},
		concurrency: cfg.Concurrency,
		now:         now,
	}
}

// Directory returns the static project directory.
func (s *Service) Directory() []models.ProjectInfo {
	return s.directory
}

// Project returns a project of the static directory.
func (s *Service) Project(id string) (models.ProjectInfo, bool) {
	return FindProject(s.directory, id)
}

// HydrateResult holds the hydrated projects and any per-project warnings.
type HydrateResult struct {
	Items    []models.ProjectInfo `json:"items"`
	Warnings []string             `json:"warnings"`
}

// Hydrate refreshes every project. Projects whose branches cannot be listed
// keep their static data and contribute a warning instead of failing the call.
func (s *Service) Hydrate(ctx context.Context) HydrateResult {
	result := HydrateResult{
		Items:    make([]models.ProjectInfo, len(s.directory)),
		Warnings: []string{},
	}
	if s.branches == nil || !s.branches.Configured() {
		result.Warnings = append(result.Warnings, missingTokenWarning)
	}

	errs := make([]error, len(s.directory))
	var g errgroup.Group
	for i, project := range s.directory {
		g.Go(func() error {
			hydrated, err := s.HydrateProject(ctx, project)
			if err != nil {
				errs[i] = err
				result.Items[i] = project
				return nil
			}
			result.Items[i] = hydrated
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", s.directory[i].Name, err))
		}
	}
	return result
}

// HydrateProject refreshes one project's branches and metrics. Only a failure
// to list branches is returned; report failures leave the branch unchanged.
func (s *Service) HydrateProject(ctx context.Context, project models.ProjectInfo) (models.ProjectInfo, error) {
	branches, err := s.listBranches(ctx, project)
	if err != nil {
		return project, err
	}

	hydrated := make([]models.BranchInfo, len(branches))
	g, gctx := errgroup.WithContext(ctx)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, branch := range branches {
		g.Go(func() error {
			hydrated[i] = s.hydrateBranch(gctx, project, branch)
			return nil
		})
	}
	_ = g.Wait()

	return ApplyProjectMetrics(project, hydrated, s.now()), nil
}

func (s *Service) listBranches(ctx context.Context, project models.ProjectInfo) ([]models.BranchInfo, error) {
	if project.URLGit == "" || s.branches == nil || !s.branches.Configured() {
		return project.Branches, nil
	}

	remote, err := s.branches.ListBranches(ctx, project.URLGit)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return MergeBranches(project, remote, s.now()), nil
}

func (s *Service) hydrateBranch(ctx context.Context, project models.ProjectInfo, branch models.BranchInfo) models.BranchInfo {
	logger := zerolog.Ctx(ctx).With().
		Str("project", project.ID).
		Str("branch", branch.ID).
		Logger()

	res := s.FetchBranchReport(ctx, project, branch.ID)
	switch res.State {
	case StateFailed:
		logger.Warn().Err(res.Err).Msg("failed to fetch branch report")
		return branch
	case StateNoData:
		logger.Debug().Msg("no report published for branch")
		return branch
	}

	branch = applyReport(branch, res.Report)
	if s.runs != nil {
		if err := s.runs.RecordRun(ctx, project.ID, branch.ID, branch.Runs[0]); err != nil {
			logger.Warn().Err(err).Msg("failed to record branch run")
		}
	}
	return branch
}

// BranchReport fetches the report of a branch of a directory project.
func (s *Service) BranchReport(ctx context.Context, projectID, branchID string) (ReportResult, bool) {
	project, ok := s.Project(projectID)
	if !ok {
		return ReportResult{}, false
	}
	return s.FetchBranchReport(ctx, project, branchID), true
}

// FetchBranchReport downloads and normalizes the report of one branch.
// Missing and empty reports both yield StateNoData.
func (s *Service) FetchBranchReport(ctx context.Context, project models.ProjectInfo, branchID string) ReportResult {
	if s.documents == nil {
		return ReportResult{State: StateNoData}
	}

	data, err := s.documents.FetchDocument(ctx, BuildBranchReportJSONPath(project, branchID))
	if errors.Is(err, gitlab.ErrNotFound) {
		return ReportResult{State: StateNoData}
	}
	if err != nil {
		return ReportResult{State: StateFailed, Err: err}
	}

	report, err := s.parser.ParseBytes(data)
	if errors.Is(err, parser.ErrNoReportData) {
		return ReportResult{State: StateNoData}
	}
	if err != nil {
		return ReportResult{State: StateFailed, Err: err}
	}
	return ReportResult{State: StateData, Report: report}
}
