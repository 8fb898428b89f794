package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// Messageはそのままクライアントへ返るため、内部要因や
// メールアドレスの存在有無を漏らす文言を含めてはならない。
type APIError struct {
	Code     string // エラーコード
	Message  string // クライアントに返すメッセージ
	Category string // カテゴリ: auth, validation, storage, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeHashingFailure     = "HASHING_FAILURE"
)

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// 「ユーザーが存在しない」と「パスワード不一致」を区別しない文言にする。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid login details",
		Category: "auth",
	}
}

// NewDuplicateEmailError は登録メールアドレス重複エラーを生成する。
// 登録時に限り、メールアドレスの存在を意図的に開示する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "Email already in use",
		Category: "validation",
	}
}

// NewUnauthenticatedError は認証失敗エラーを生成する。
// トークン欠落・改ざん・期限切れ・主体消失のいずれであっても
// 同一の文言を返し、失敗理由を外部に開示しない。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "Authentication required",
		Category: "auth",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
// 有効なIdentityが存在する場合にのみ使用する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "Insufficient permissions",
		Category: "auth",
	}
}

// NewValidationError は入力検証エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
	}
}

// NewNotFoundError はリソース未検出エラーを生成する。
// 認証コンテキストでは使用しない（UnauthenticatedErrorに集約する）。
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("%s not found", resource),
		Category: "validation",
	}
}

// NewStorageUnavailableError はストレージ障害エラーを生成する。
// 内部詳細はログのみに記録し、クライアントには一般的な文言を返す。
func NewStorageUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeStorageUnavailable,
		Message:  "Internal server error",
		Category: "storage",
	}
}

// NewHashingFailureError はハッシュ計算の致命的失敗エラーを生成する。
// ユーザー入力では発生せず、乱数源の枯渇等の内部異常のみが原因となる。
func NewHashingFailureError() *APIError {
	return &APIError{
		Code:     ErrCodeHashingFailure,
		Message:  "Internal server error",
		Category: "system",
	}
}
