package models

// BranchRun is a single recorded execution of a branch's end-to-end suite.
type BranchRun struct {
	ID              string `json:"id" yaml:"id"`
	ExecutedAt      string `json:"executedAt" yaml:"executedAt"`
	PassRate        int    `json:"passRate" yaml:"passRate"`
	DurationMinutes int    `json:"durationMinutes" yaml:"durationMinutes"`
	TotalScenarios  int    `json:"totalScenarios" yaml:"totalScenarios"`
	FailedScenarios int    `json:"failedScenarios" yaml:"failedScenarios"`
	Status          Health `json:"status" yaml:"status"`
}

// BranchInfo describes a tracked branch and its latest known results.
type BranchInfo struct {
	ID              string      `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	Owner           string      `json:"owner" yaml:"owner"`
	Status          Health      `json:"status" yaml:"status"`
	UpdatedAt       string      `json:"updatedAt" yaml:"updatedAt"`
	LastCommit      string      `json:"lastCommit" yaml:"lastCommit"`
	TotalScenarios  int         `json:"totalScenarios" yaml:"totalScenarios"`
	PassedScenarios int         `json:"passedScenarios" yaml:"passedScenarios"`
	DurationMinutes int         `json:"durationMinutes" yaml:"durationMinutes"`
	ReportPath      string      `json:"reportPath" yaml:"reportPath"`
	Runs            []BranchRun `json:"runs" yaml:"runs"`
}

// ProjectInfo describes a project whose branches are tracked.
type ProjectInfo struct {
	ID                string       `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	Description       string       `json:"description" yaml:"description"`
	Owner             string       `json:"owner" yaml:"owner"`
	URLGit            string       `json:"urlGit,omitempty" yaml:"urlGit"`
	ReportSlug        string       `json:"reportSlug,omitempty" yaml:"reportSlug"`
	PassRate          int          `json:"passRate" yaml:"passRate"`
	Coverage          int          `json:"coverage" yaml:"coverage"`
	LastRunAt         string       `json:"lastRunAt" yaml:"lastRunAt"`
	TotalRunsThisWeek int          `json:"totalRunsThisWeek" yaml:"totalRunsThisWeek"`
	Branches          []BranchInfo `json:"branches" yaml:"branches"`
}

// Branch returns the branch with the given id.
func (p *ProjectInfo) Branch(id string) (BranchInfo, bool) {
	for _, b := range p.Branches {
		if b.ID == id {
			return b, true
		}
	}
	return BranchInfo{}, false
}
