package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kamilpajak/pulse/pkg/models"
)

// DefaultRunLimit caps ListBranchRuns when no limit is given.
const DefaultRunLimit = 30

const runColumns = `id, executed_at, pass_rate, duration_minutes, total_scenarios, failed_scenarios, status`

// RecordRun stores a run of a branch. Recording the same execution again
// updates the stored figures instead of adding a row.
func (db *DB) RecordRun(ctx context.Context, projectID, branchID string, run models.BranchRun) error {
	executedAt, err := time.Parse(time.RFC3339, run.ExecutedAt)
	if err != nil {
		return fmt.Errorf("invalid executedAt %q: %w", run.ExecutedAt, err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO branch_runs (id, project_id, branch_id, executed_at, pass_rate, duration_minutes, total_scenarios, failed_scenarios, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (project_id, branch_id, executed_at) DO UPDATE SET
		   pass_rate = EXCLUDED.pass_rate,
		   duration_minutes = EXCLUDED.duration_minutes,
		   total_scenarios = EXCLUDED.total_scenarios,
		   failed_scenarios = EXCLUDED.failed_scenarios,
		   status = EXCLUDED.status,
		   recorded_at = NOW()`,
		uuid.New(), projectID, branchID, executedAt, run.PassRate, run.DurationMinutes,
		run.TotalScenarios, run.FailedScenarios, string(run.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListBranchRuns returns the most recent runs of a branch, newest first.
func (db *DB) ListBranchRuns(ctx context.Context, projectID, branchID string, limit int) ([]models.BranchRun, error) {
	if limit <= 0 {
		limit = DefaultRunLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+`
		 FROM branch_runs
		 WHERE project_id = $1 AND branch_id = $2
		 ORDER BY executed_at DESC
		 LIMIT $3`,
		projectID, branchID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []models.BranchRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestBranchRun returns the newest run of a branch, or nil if none exists.
func (db *DB) LatestBranchRun(ctx context.Context, projectID, branchID string) (*models.BranchRun, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+runColumns+`
		 FROM branch_runs
		 WHERE project_id = $1 AND branch_id = $2
		 ORDER BY executed_at DESC
		 LIMIT 1`,
		projectID, branchID,
	)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteBranchRuns removes every stored run of a branch.
func (db *DB) DeleteBranchRuns(ctx context.Context, projectID, branchID string) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM branch_runs WHERE project_id = $1 AND branch_id = $2`,
		projectID, branchID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRun(row pgx.Row) (models.BranchRun, error) {
	var (
		run        models.BranchRun
		id         uuid.UUID
		executedAt time.Time
		status     string
	)
	err := row.Scan(&id, &executedAt, &run.PassRate, &run.DurationMinutes,
		&run.TotalScenarios, &run.FailedScenarios, &status)
	if err != nil {
		return models.BranchRun{}, err
	}
	run.ID = id.String()
	run.ExecutedAt = executedAt.UTC().Format(time.RFC3339)
	run.Status = models.Health(status)
	return run, nil
}
