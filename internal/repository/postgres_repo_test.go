package repository

import (
	"testing"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// PostgresJobRepoはJobRepositoryインターフェースを満たすことを検証
func TestPostgresJobRepo_ImplementsInterface(t *testing.T) {
	var _ JobRepository = (*PostgresJobRepo)(nil)
}

// PostgresApplicationRepoはApplicationRepositoryインターフェースを満たすことを検証
func TestPostgresApplicationRepo_ImplementsInterface(t *testing.T) {
	var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresJobRepoが正しく初期化されることを検証
func TestNewPostgresJobRepo_Initializes(t *testing.T) {
	repo := NewPostgresJobRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresApplicationRepoが正しく初期化されることを検証
func TestNewPostgresApplicationRepo_Initializes(t *testing.T) {
	repo := NewPostgresApplicationRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
