package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kamilpajak/pulse/internal/config"
	"github.com/kamilpajak/pulse/internal/gitlab"
	"github.com/kamilpajak/pulse/internal/logging"
	"github.com/kamilpajak/pulse/internal/projects"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFile string
	cfg        *config.Config
	logger     zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "End-to-end test health for projects and branches",
	Long: `Pulse normalizes Playwright JSON reports and tracks the health of
every project branch that publishes them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (YAML)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Bool("log-pretty", false, "Human-readable logs")
	flags.String("gitlab-api-url", "", "GitLab API URL")
	flags.String("gitlab-token", "", "GitLab access token")
	flags.String("reports-base-url", "", "Base URL of the published reports")
	flags.String("projects-file", "", "Project directory file (YAML)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads .env, the configuration and the logger before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	loaded, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	cfg = loaded
	logger = logging.New(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

func newGitLabClient() *gitlab.Client {
	return gitlab.NewClient(gitlab.Config{
		APIURL:            cfg.GitLab.APIURL,
		Token:             cfg.GitLab.Token,
		ReportsBaseURL:    cfg.Reports.BaseURL,
		RequestsPerSecond: cfg.RateLimit,
	})
}

func newProjectService(runs projects.RunRecorder) (*projects.Service, error) {
	directory, err := projects.LoadDirectory(cfg.ProjectsFile)
	if err != nil {
		return nil, err
	}

	client := newGitLabClient()
	return projects.NewService(projects.Config{
		Directory:   directory,
		Branches:    client,
		Documents:   client,
		Runs:        runs,
		Concurrency: cfg.Concurrency,
	}), nil
}
