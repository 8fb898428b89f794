// Package auth は登録・ログイン・トークン発行の認証ビジネスロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// PasswordHasher はパスワードのハッシュ化と検証のインターフェース。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encodedHash string) bool
}

// TokenIssuer はセッショントークン発行のインターフェース。
type TokenIssuer interface {
	Encode(subject string) (string, error)
}

// Metrics は認証イベントのメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type Metrics interface {
	RecordRegistration(role string)
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordLoginLatency(d time.Duration)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	// HashMaxConcurrent は同時に実行するパスワードハッシュ計算の上限。
	// Argon2idはメモリハードで高コストなため、無制限に並列実行すると
	// 他のリクエスト処理を圧迫する。
	HashMaxConcurrent int
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	issuer   TokenIssuer
	metrics  Metrics
	hashSem  chan struct{}
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	issuer TokenIssuer,
	metrics Metrics,
	config ServiceConfig,
) *Service {
	maxConcurrent := config.HashMaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		metrics:  metrics,
		hashSem:  make(chan struct{}, maxConcurrent),
	}
}

// RegisterInput はユーザー登録の入力。
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register は新規ユーザーを登録する。
// メールアドレスは小文字化して保存し、重複時はDuplicateEmailを返す。
// 平文パスワードは永続化せず、ログにも出力しない。
func (s *Service) Register(ctx context.Context, input RegisterInput, role model.Role) (*model.User, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, model.NewDuplicateEmailError()
	}

	hash, err := s.hashPassword(ctx, input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// 事前チェックとINSERTの間に同一メールが登録された場合
		if err == repository.ErrDuplicateEmail {
			return nil, model.NewDuplicateEmailError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration(role.String())
	}
	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("role", role.String()),
	)

	return user, nil
}

// Login は資格情報を検証し、成功時にセッショントークンを発行する。
// 「ユーザーが存在しない」と「パスワード不一致」は同一のエラーとし、
// メールアドレスの存在有無を応答から推測できないようにする。
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordLoginLatency(time.Since(start))
		}
	}()

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil {
		// ユーザー不在でも検証と同等のコストを消費し、
		// 応答時間からの存在推測を防ぐ
		s.verifyPassword(ctx, password, dummyHash)
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return "", nil, model.NewInvalidCredentialsError()
	}

	if !s.verifyPassword(ctx, password, user.PasswordHash) {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		slog.Warn("login failed", slog.String("user_id", user.ID))
		return "", nil, model.NewInvalidCredentialsError()
	}

	tokenString, err := s.issuer.Encode(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
	slog.Info("user logged in", slog.String("user_id", user.ID))

	return tokenString, user, nil
}

// CurrentUser は認証済み主体のユーザーレコードを取得する。
// 見つからない場合はUnauthenticated扱いにする（トークン発行後に
// 主体が消失したケースを無効トークンと区別させない）。
func (s *Service) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthenticatedError()
	}
	return user, nil
}

// hashPassword は並列数の上限内でパスワードをハッシュ化する。
// 上限到達時は空きが出るまで待機し、リクエストのキャンセルで打ち切る。
func (s *Service) hashPassword(ctx context.Context, plaintext string) (string, error) {
	select {
	case s.hashSem <- struct{}{}:
		defer func() { <-s.hashSem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		slog.Error("password hashing failed", slog.String("error", err.Error()))
		return "", model.NewHashingFailureError()
	}
	return hash, nil
}

// verifyPassword は並列数の上限内でパスワードを照合する。
// キャンセル済みコンテキストでは不一致として扱う。
func (s *Service) verifyPassword(ctx context.Context, plaintext, encodedHash string) bool {
	select {
	case s.hashSem <- struct{}{}:
		defer func() { <-s.hashSem }()
	case <-ctx.Done():
		return false
	}

	return s.hasher.Verify(plaintext, encodedHash)
}

// validateRegisterInput は登録入力の形式を検証する。
func validateRegisterInput(input RegisterInput) error {
	if strings.TrimSpace(input.FirstName) == "" {
		return model.NewValidationError("first_name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return model.NewValidationError("last_name is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return model.NewValidationError("a valid email is required")
	}
	if len(input.Password) < 8 {
		return model.NewValidationError("password must be at least 8 characters")
	}
	return nil
}

// dummyHash はユーザー不在時のダミー検証に使う固定ハッシュ。
// 形式は正規のPHC文字列で、ダイジェストは固定バイト列のため
// どの平文パスワードとも一致しない。
const dummyHash = "$argon2id$v=19$m=65536,t=3,p=2$MDEyMzQ1Njc4OWFiY2RlZg$MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY"
