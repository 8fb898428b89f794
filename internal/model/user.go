// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"time"
)

// Role はユーザーの権限ロールを表す閉じた列挙型。
// ロールを追加する場合は必ず新しい定数を定義し、IsValidも更新すること。
type Role string

const (
	// RoleUser は一般ユーザーを示す。
	RoleUser Role = "User"
	// RoleAdmin は管理者を示す。
	RoleAdmin Role = "Admin"
)

// IsValid はロールが定義済みのいずれかであるかを返す。
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// String はロールの文字列表現を返す。
func (r Role) String() string {
	return string(r)
}

// ParseRole は文字列からRoleを生成する。
// 未定義の文字列はエラーを返す（自由形式のロール文字列は受け付けない）。
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

// User はサービス利用ユーザーを表す。
// PasswordHashは永続化層とauthサービスのみが扱い、
// APIレスポンスとログには決して含めない。
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	Resume       string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity は検証済みトークンとユーザーディレクトリ照会から解決された
// リクエストスコープの認証済み主体を表す。
// 1リクエストの処理期間だけ生存し、付与後は変更しない。
type Identity struct {
	UserID string
	Role   Role
}
