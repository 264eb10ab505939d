package projects

import (
	"strings"
	"time"

	"github.com/kamilpajak/pulse/internal/gitlab"
	"github.com/kamilpajak/pulse/pkg/models"
)

const missingCommitMessage = "Ultimo commit nao disponivel"

// fallbackIndex indexes static branches by lower-cased id and name, with and
// without "/" replaced by "-".
func fallbackIndex(branches []models.BranchInfo) map[string]models.BranchInfo {
	index := make(map[string]models.BranchInfo, len(branches)*4)
	for _, b := range branches {
		for _, key := range []string{b.ID, b.Name, branchSlug(b.ID), branchSlug(b.Name)} {
			index[strings.ToLower(key)] = b
		}
	}
	return index
}

// MergeBranches combines the branches reported by GitLab with the project's
// static branches. Remote branches keep their GitLab order; static branches
// GitLab did not report are appended.
func MergeBranches(project models.ProjectInfo, remote []gitlab.Branch, now time.Time) []models.BranchInfo {
	if len(remote) == 0 {
		return project.Branches
	}

	index := fallbackIndex(project.Branches)
	merged := make([]models.BranchInfo, 0, len(remote)+len(project.Branches))
	seen := make(map[string]bool, len(remote))

	for _, rb := range remote {
		fallback, ok := index[strings.ToLower(rb.Name)]
		if !ok {
			fallback, ok = index[strings.ToLower(branchSlug(rb.Name))]
		}
		var fb *models.BranchInfo
		if ok {
			fb = &fallback
			seen[fallback.ID] = true
		}
		b := normalizeBranch(project, rb, fb, now)
		merged = append(merged, b)
		seen[b.ID] = true
	}

	for _, b := range project.Branches {
		if !seen[b.ID] {
			merged = append(merged, b)
		}
	}
	return merged
}

func normalizeBranch(project models.ProjectInfo, rb gitlab.Branch, fallback *models.BranchInfo, now time.Time) models.BranchInfo {
	committedAt := commitDate(rb, fallback, now)
	message := commitMessage(rb, fallback)

	var base models.BranchInfo
	if fallback != nil {
		base = *fallback
	} else {
		base = models.BranchInfo{
			Owner:  project.Owner,
			Status: models.HealthPassing,
			Runs:   []models.BranchRun{},
		}
	}

	base.ID = rb.Name
	base.Name = rb.Name
	base.UpdatedAt = committedAt
	base.LastCommit = message
	base.ReportPath = BuildBranchReportPath(project, rb.Name)
	return base
}

// commitDate prefers the remote commit date, then the static branch date,
// then now.
func commitDate(rb gitlab.Branch, fallback *models.BranchInfo, now time.Time) string {
	if rb.Commit != nil && rb.Commit.CommittedDate != "" {
		return rb.Commit.CommittedDate
	}
	if fallback != nil && fallback.UpdatedAt != "" {
		return fallback.UpdatedAt
	}
	return now.UTC().Format(time.RFC3339)
}

// commitMessage prefers the commit title, then the first line of the
// commit message, then the static branch's last commit.
func commitMessage(rb gitlab.Branch, fallback *models.BranchInfo) string {
	if rb.Commit != nil {
		if rb.Commit.Title != "" {
			return rb.Commit.Title
		}
		if rb.Commit.Message != "" {
			return strings.SplitN(rb.Commit.Message, "\n", 2)[0]
		}
	}
	if fallback != nil && fallback.LastCommit != "" {
		return fallback.LastCommit
	}
	return missingCommitMessage
}
