// Package application は求人応募のビジネスロジックを提供する。
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// PageSize は応募一覧の1ページあたりの件数。
const PageSize = 10

// Service は応募に関するビジネスロジックを提供する。
type Service struct {
	appRepo repository.ApplicationRepository
	jobRepo repository.JobRepository
}

// NewService はServiceを生成する。
func NewService(appRepo repository.ApplicationRepository, jobRepo repository.JobRepository) *Service {
	return &Service{appRepo: appRepo, jobRepo: jobRepo}
}

// Apply はユーザーの求人への応募を登録する。
// 同一ユーザー・同一求人の応募は冪等で、既存の応募をそのまま返す。
func (s *Service) Apply(ctx context.Context, userID, jobID string) (*model.Application, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, model.NewValidationError("invalid job id")
	}

	j, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if j == nil {
		return nil, model.NewNotFoundError("job")
	}

	existing, err := s.appRepo.FindByUserAndJob(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find existing application: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	app := &model.Application{
		ID:        uuid.New().String(),
		JobID:     jobID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	slog.Info("application submitted",
		slog.String("application_id", app.ID),
		slog.String("job_id", jobID),
		slog.String("user_id", userID),
	)

	return app, nil
}

// List は全応募を応募者情報付きでページ番号（0始まり）で返す。
// 呼び出し側でAdminロールを検証済みであることが契約。
func (s *Service) List(ctx context.Context, page int) ([]model.ApplicationWithApplicant, error) {
	if page < 0 {
		page = 0
	}

	apps, err := s.appRepo.ListWithApplicants(ctx, page*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return apps, nil
}

// ListByJob は指定求人の応募を応募者情報付きで返す。
// 呼び出し側でAdminロールを検証済みであることが契約。
func (s *Service) ListByJob(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, model.NewValidationError("invalid job id")
	}

	apps, err := s.appRepo.ListByJobWithApplicants(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by job: %w", err)
	}

	return apps, nil
}
