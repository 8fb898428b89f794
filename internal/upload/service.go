// Package upload は履歴書ファイルの保存を提供する。
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// allowedTypes は受け付けるContent-Typeの集合。
var allowedTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/gif":       true,
	"application/pdf": true,
}

// ServiceConfig は履歴書保存サービスの設定。
type ServiceConfig struct {
	Dir     string // 保存先ディレクトリ
	MaxSize int64  // 受け付ける最大ファイルサイズ（バイト）
}

// Service は履歴書ファイルの検証・保存とユーザーレコードの更新を行う。
type Service struct {
	userRepo repository.UserRepository
	config   ServiceConfig
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, config ServiceConfig) *Service {
	return &Service{userRepo: userRepo, config: config}
}

// AllowedType は指定されたContent-Typeを受け付けるかを返す。
func AllowedType(contentType string) bool {
	return allowedTypes[contentType]
}

// SaveResume はアップロードされた履歴書を保存し、ユーザーレコードを更新する。
// ファイル名はUUIDを前置して衝突とパストラバーサルを防ぐ。
// サイズ上限はMaxSize+1バイトまで読んで検出する（Content-Lengthは信用しない）。
func (s *Service) SaveResume(ctx context.Context, userID, filename, contentType string, body io.Reader) (string, error) {
	if !AllowedType(contentType) {
		return "", model.NewValidationError("unsupported file type")
	}

	if err := os.MkdirAll(s.config.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	// filepath.Baseで入力ファイル名からディレクトリ成分を除去する
	destName := fmt.Sprintf("%s-%s", uuid.New().String(), filepath.Base(filename))
	destPath := filepath.Join(s.config.Dir, destName)

	f, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create resume file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(body, s.config.MaxSize+1))
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to write resume file: %w", err)
	}
	if written > s.config.MaxSize {
		os.Remove(destPath)
		return "", model.NewValidationError("file exceeds maximum size")
	}

	if err := s.userRepo.UpdateResume(ctx, userID, destPath); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to update resume record: %w", err)
	}

	slog.Info("resume uploaded",
		slog.String("user_id", userID),
		slog.Int64("size_bytes", written),
	)

	return destPath, nil
}
