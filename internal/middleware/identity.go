// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/token"
)

// TokenCookieName はトークンを保持するCookieの名前。
const TokenCookieName = "token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストにIdentityを格納するためのキー。
var identityContextKey = contextKey("identity")

// TokenDecoder はトークン検証のインターフェース。token.Codecの部分集合。
type TokenDecoder interface {
	Decode(tokenString string) (*token.Claims, error)
}

// UserDirectory はトークンの主体をユーザーレコードに解決するインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// RejectionMetrics はトークン拒否のメトリクス記録インターフェース。
// metrics.Collectorの部分集合。
type RejectionMetrics interface {
	RecordTokenRejected(reason string)
}

// NewIdentityMiddleware はリクエストからトークンを取り出して検証し、
// 主体をユーザーディレクトリで解決してIdentityをコンテキストに付与する
// ミドルウェアを返す。トークンはCookie「token」とAuthorization: Bearerの
// どちらでも等価に受け付ける。
//
// 欠落・改ざん・期限切れ・主体消失はすべて同一の401レスポンスに集約し、
// 失敗理由はログとメトリクスにのみ記録する。
// Identityはこのリクエストの処理中のみ生存し、完了とともに破棄される。
func NewIdentityMiddleware(decoder TokenDecoder, directory UserDirectory, metrics RejectionMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. トークンの取り出し
			tokenString := extractToken(r)
			if tokenString == "" {
				recordRejection(metrics, "missing")
				writeUnauthenticated(w)
				return
			}

			// 2. トークンの検証
			claims, err := decoder.Decode(tokenString)
			if err != nil {
				recordRejection(metrics, rejectionReason(err))
				slog.Warn("token rejected",
					slog.String("reason", rejectionReason(err)),
				)
				writeUnauthenticated(w)
				return
			}

			// 3. 主体の解決
			user, err := directory.FindByID(r.Context(), claims.Subject)
			if err != nil {
				slog.Error("user directory lookup failed",
					slog.String("error", err.Error()),
				)
				writeStorageUnavailable(w)
				return
			}
			if user == nil {
				// 発行後に主体が消失したケース。
				// 無効トークンと区別できないよう同じ401を返す。
				recordRejection(metrics, "unknown_subject")
				writeUnauthenticated(w)
				return
			}

			// 4. Identityをコンテキストに付与
			identity := &model.Identity{
				UserID: user.ID,
				Role:   user.Role,
			}
			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken はCookieまたはAuthorizationヘッダーからトークンを取り出す。
// Cookieを優先し、なければBearerスキームのヘッダーを参照する。
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}

	return ""
}

// rejectionReason はトークン検証エラーをメトリクス用の理由ラベルに変換する。
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}

func recordRejection(metrics RejectionMetrics, reason string) {
	if metrics != nil {
		metrics.RecordTokenRejected(reason)
	}
}

// IdentityFromContext はリクエストコンテキストからIdentityを取得する。
// IdentityMiddlewareを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok || identity == nil {
		return nil, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity はコンテキストにIdentityを付与する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// writeUnauthenticated は統一フォーマットの401レスポンスを書き込む。
func writeUnauthenticated(w http.ResponseWriter) {
	writeEnvelopeError(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
}

// writeStorageUnavailable は統一フォーマットの500レスポンスを書き込む。
func writeStorageUnavailable(w http.ResponseWriter) {
	writeEnvelopeError(w, http.StatusInternalServerError, model.NewStorageUnavailableError())
}

// writeEnvelopeError は{status, message}エンベロープのエラーレスポンスを書き込む。
func writeEnvelopeError(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "Error",
		"message": apiErr.Message,
	})
}
