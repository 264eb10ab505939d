package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var projectsJSON bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Show the health of every project branch",
	RunE:  runProjects,
}

func init() {
	projectsCmd.Flags().BoolVar(&projectsJSON, "json", false, "Output as JSON")
}

func runProjects(cmd *cobra.Command, args []string) error {
	svc, err := newProjectService(nil)
	if err != nil {
		return err
	}

	stop := startSpinner("Syncing projects...")
	result := svc.Hydrate(cmd.Context())
	stop()

	if projectsJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
	}
	printProjects(cmd.OutOrStdout(), result)
	return nil
}
