package model

import "time"

// Job は求人情報を表す。
type Job struct {
	ID          string
	Title       string
	CompanyName string
	City        string
	Country     string
	Salary      string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Application は求人への応募を表す。
// 同一ユーザー・同一求人の組み合わせは最大1件。
type Application struct {
	ID        string
	JobID     string
	UserID    string
	CreatedAt time.Time
}

// ApplicationWithApplicant は応募に応募者情報を結合したビュー。
// 管理者向けの応募一覧で使用する。
type ApplicationWithApplicant struct {
	Application
	ApplicantID string
	FirstName   string
	LastName    string
}
