// Package cleanup はアップロードディレクトリの孤児ファイル削除ジョブを提供する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hitoshi/jobboard/internal/repository"
)

// Job はどのユーザーからも参照されていない履歴書ファイルを削除する。
// アップロード成功後にレコード更新だけが失敗したケースや、
// 再アップロードで置き換えられた旧ファイルが対象になる。
type Job struct {
	userRepo  repository.UserRepository
	uploadDir string
	logger    *slog.Logger
}

// NewJob はJobを生成する。
func NewJob(userRepo repository.UserRepository, uploadDir string, logger *slog.Logger) *Job {
	return &Job{
		userRepo:  userRepo,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// Run はクリーンアップを1回実行し、削除したファイル数を返す。
func (j *Job) Run(ctx context.Context) (int, error) {
	resumes, err := j.userRepo.ListResumes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list referenced resumes: %w", err)
	}

	referenced := make(map[string]bool, len(resumes))
	for _, r := range resumes {
		referenced[filepath.Clean(r)] = true
	}

	entries, err := os.ReadDir(j.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read upload directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(j.uploadDir, entry.Name())
		if referenced[filepath.Clean(path)] {
			continue
		}

		if err := os.Remove(path); err != nil {
			j.logger.Warn("failed to remove orphan file",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info("orphan resume files removed", slog.Int("count", removed))
	}

	return removed, nil
}
