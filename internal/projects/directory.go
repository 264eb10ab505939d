// Package projects tracks the project/branch directory and hydrates it with
// the latest published end-to-end reports.
package projects

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/kamilpajak/pulse/pkg/models"
	"gopkg.in/yaml.v3"
)

//go:embed directory.yaml
var defaultDirectory []byte

// DefaultDirectory returns the built-in fallback directory.
func DefaultDirectory() ([]models.ProjectInfo, error) {
	return decodeDirectory(defaultDirectory)
}

// LoadDirectory reads a directory from a YAML file. An empty path yields the
// built-in directory.
func LoadDirectory(path string) ([]models.ProjectInfo, error) {
	if path == "" {
		return DefaultDirectory()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}
	return decodeDirectory(data)
}

func decodeDirectory(data []byte) ([]models.ProjectInfo, error) {
	var projects []models.ProjectInfo
	if err := yaml.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse project directory: %w", err)
	}
	for i, p := range projects {
		if p.ID == "" {
			return nil, fmt.Errorf("project #%d has no id", i+1)
		}
		for j := range p.Branches {
			if p.Branches[j].Runs == nil {
				projects[i].Branches[j].Runs = []models.BranchRun{}
			}
		}
	}
	return projects, nil
}

// branchSlug replaces path separators so a branch name is a single path segment.
func branchSlug(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

func reportSlug(project models.ProjectInfo) string {
	if project.ReportSlug != "" {
		return project.ReportSlug
	}
	return project.ID
}

// BuildBranchReportPath returns the path of the HTML report of a branch.
func BuildBranchReportPath(project models.ProjectInfo, branch string) string {
	return fmt.Sprintf("/reports/%s/%s/index.html", reportSlug(project), branchSlug(branch))
}

// BuildBranchReportJSONPath returns the path of the JSON report of a branch.
func BuildBranchReportJSONPath(project models.ProjectInfo, branch string) string {
	return fmt.Sprintf("/reports/%s/%s/report.json", reportSlug(project), branchSlug(branch))
}

// FindProject returns the project with the given id.
func FindProject(projects []models.ProjectInfo, id string) (models.ProjectInfo, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.ProjectInfo{}, false
}
