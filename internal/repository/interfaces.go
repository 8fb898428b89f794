// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/jobboard/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を示す。
// 事前のExistsByEmailチェックとINSERTの間の競合でも発生しうるため、
// Createはこのエラーで一意制約違反を通知する。
var ErrDuplicateEmail = errors.New("repository: email already exists")

// UserRepository はユーザーデータの永続化インターフェース。
// 認証コアからはユーザーディレクトリとして参照される。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。
	// 比較は小文字化したメールアドレスで行う。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// ExistsByEmail は指定メールアドレスのユーザーが存在するかを返す。
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create はユーザーを作成する。
	// メールアドレスの一意制約違反はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateResume はユーザーの履歴書ファイルパスを更新する。
	UpdateResume(ctx context.Context, userID, resume string) error

	// ListResumes は全ユーザーの履歴書ファイルパスを返す。
	// クリーンアップワーカーが参照中ファイルの判定に使用する。
	ListResumes(ctx context.Context) ([]string, error)
}

// JobRepository は求人データの永続化インターフェース。
type JobRepository interface {
	// Create は求人を作成する。
	Create(ctx context.Context, job *model.Job) error

	// FindByID は指定IDの求人を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Job, error)

	// List は求人一覧を作成日時の降順で返す。
	List(ctx context.Context, offset, limit int) ([]*model.Job, error)
}

// ApplicationRepository は応募データの永続化インターフェース。
type ApplicationRepository interface {
	// Create は応募を作成する。
	Create(ctx context.Context, application *model.Application) error

	// FindByUserAndJob はユーザーIDと求人IDで応募を検索する。
	// 見つからない場合はnilを返す。
	FindByUserAndJob(ctx context.Context, userID, jobID string) (*model.Application, error)

	// ListWithApplicants は全応募を応募者情報付きで返す。
	ListWithApplicants(ctx context.Context, offset, limit int) ([]model.ApplicationWithApplicant, error)

	// ListByJobWithApplicants は指定求人の応募を応募者情報付きで返す。
	ListByJobWithApplicants(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error)
}
