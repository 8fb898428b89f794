package middleware

import (
	"net/http"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/policy"
)

// NewRequireRoleMiddleware は付与済みIdentityのロールを検証する
// ミドルウェアを返す。IdentityMiddlewareの後段に配置すること。
// ロール不足は403、Identity欠落（配置ミス）は401を返す。
func NewRequireRoleMiddleware(required model.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := IdentityFromContext(r.Context())
			if err != nil {
				writeUnauthenticated(w)
				return
			}

			if err := policy.Require(identity, required); err != nil {
				writeEnvelopeError(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
