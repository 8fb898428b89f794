// Package job は求人掲載のビジネスロジックを提供する。
package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// PageSize は求人一覧の1ページあたりの件数。
const PageSize = 10

// Service は求人に関するビジネスロジックを提供する。
type Service struct {
	jobRepo   repository.JobRepository
	sanitizer *bluemonday.Policy
}

// NewService はServiceを生成する。
// 求人説明文はユーザー入力のため、保存前にUGCポリシーでサニタイズする。
func NewService(jobRepo repository.JobRepository) *Service {
	return &Service{
		jobRepo:   jobRepo,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// CreateInput は求人作成の入力。
type CreateInput struct {
	Title       string
	CompanyName string
	City        string
	Country     string
	Salary      string
	Description string
}

// Create は求人を作成する。
// 呼び出し側でAdminロールを検証済みであることが契約。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Job, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	j := &model.Job{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(input.Title),
		CompanyName: strings.TrimSpace(input.CompanyName),
		City:        strings.TrimSpace(input.City),
		Country:     strings.TrimSpace(input.Country),
		Salary:      strings.TrimSpace(input.Salary),
		Description: s.sanitizer.Sanitize(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.jobRepo.Create(ctx, j); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	slog.Info("job posting created",
		slog.String("job_id", j.ID),
		slog.String("company", j.CompanyName),
	)

	return j, nil
}

// List は求人一覧をページ番号（0始まり）で返す。
func (s *Service) List(ctx context.Context, page int) ([]*model.Job, error) {
	if page < 0 {
		page = 0
	}

	jobs, err := s.jobRepo.List(ctx, page*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// Get は指定IDの求人を取得する。見つからない場合はNotFoundを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewValidationError("invalid job id")
	}

	j, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if j == nil {
		return nil, model.NewNotFoundError("job")
	}

	return j, nil
}

// validateCreateInput は求人作成入力の形式を検証する。
func validateCreateInput(input CreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return model.NewValidationError("title is required")
	}
	if strings.TrimSpace(input.CompanyName) == "" {
		return model.NewValidationError("company_name is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return model.NewValidationError("description is required")
	}
	return nil
}
