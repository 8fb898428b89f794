package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/jobboard/internal/model"
)

// PostgresApplicationRepo はPostgreSQLを使用した応募リポジトリ。
type PostgresApplicationRepo struct {
	db *sql.DB
}

// NewPostgresApplicationRepo はPostgresApplicationRepoを生成する。
func NewPostgresApplicationRepo(db *sql.DB) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

// Create は応募を作成する。
func (r *PostgresApplicationRepo) Create(ctx context.Context, application *model.Application) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (id, job_id, user_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		application.ID, application.JobID, application.UserID, application.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// FindByUserAndJob はユーザーIDと求人IDで応募を検索する。見つからない場合はnilを返す。
func (r *PostgresApplicationRepo) FindByUserAndJob(ctx context.Context, userID, jobID string) (*model.Application, error) {
	app := &model.Application{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, job_id, user_id, created_at FROM applications
		 WHERE user_id = $1 AND job_id = $2`,
		userID, jobID,
	).Scan(&app.ID, &app.JobID, &app.UserID, &app.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application: %w", err)
	}

	return app, nil
}

const applicationJoinQuery = `
	SELECT applications.id, applications.job_id, applications.user_id, applications.created_at,
	       users.id, users.first_name, users.last_name
	FROM applications
	INNER JOIN users ON applications.user_id = users.id`

// scanApplicationRows は応募者情報付き応募の行をスキャンする。
func scanApplicationRows(rows *sql.Rows) ([]model.ApplicationWithApplicant, error) {
	var apps []model.ApplicationWithApplicant
	for rows.Next() {
		var a model.ApplicationWithApplicant
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.UserID, &a.CreatedAt,
			&a.ApplicantID, &a.FirstName, &a.LastName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// ListWithApplicants は全応募を応募者情報付きで返す。
func (r *PostgresApplicationRepo) ListWithApplicants(ctx context.Context, offset, limit int) ([]model.ApplicationWithApplicant, error) {
	rows, err := r.db.QueryContext(ctx,
		applicationJoinQuery+` ORDER BY applications.created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	return scanApplicationRows(rows)
}

// ListByJobWithApplicants は指定求人の応募を応募者情報付きで返す。
func (r *PostgresApplicationRepo) ListByJobWithApplicants(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error) {
	rows, err := r.db.QueryContext(ctx,
		applicationJoinQuery+` WHERE applications.job_id = $1 ORDER BY applications.created_at DESC`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by job: %w", err)
	}
	defer rows.Close()

	return scanApplicationRows(rows)
}

// compile-time interface check
var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)
