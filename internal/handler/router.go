package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/jobboard/internal/metrics"
	"github.com/hitoshi/jobboard/internal/middleware"
	"github.com/hitoshi/jobboard/internal/model"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenDecoder      middleware.TokenDecoder
	UserDirectory     middleware.UserDirectory
	RejectionMetrics  middleware.RejectionMetrics
	StatusMetrics     middleware.StatusMetrics
	RateLimiter       *middleware.RateLimiter
	CORSAllowedOrigin string

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 求人・応募・アップロード
	JobService         JobServiceInterface
	ApplicationService ApplicationServiceInterface
	UploadService      UploadServiceInterface

	// 運用
	HealthChecker HealthChecker
	Gatherer      prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging、
//	認証必須グループではさらに Identity →（管理ルートのみ）RequireRole
//
// ログイン・登録には接続元IPごとのレート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default(), deps.StatusMetrics))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	jobHandler := NewJobHandler(deps.JobService)
	appHandler := NewApplicationHandler(deps.ApplicationService)
	uploadHandler := NewUploadHandler(deps.UploadService)

	identityMiddleware := middleware.NewIdentityMiddleware(
		deps.TokenDecoder, deps.UserDirectory, deps.RejectionMetrics,
	)

	// 運用エンドポイント
	r.Get("/health", newHealthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		// --- 認証不要のルート ---

		// 資格情報を扱うエンドポイントはレート制限付き
		r.Group(func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.AuthMiddleware())
			}
			r.Post("/auth/user/register", authHandler.RegisterUser)
			r.Post("/auth/admin/register", authHandler.RegisterAdmin)
			r.Post("/auth/login", authHandler.Login)
		})

		// 求人の閲覧は公開
		r.Get("/jobs", jobHandler.List)
		r.Get("/job/{job_id}", jobHandler.Get)

		// --- 認証が必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(identityMiddleware)

			r.Get("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)
			r.Post("/application", appHandler.Apply)
			r.Patch("/resume", uploadHandler.UploadResume)

			// --- Adminロールが必要なルート ---
			r.Group(func(r chi.Router) {
				r.Use(middleware.NewRequireRoleMiddleware(model.RoleAdmin))

				r.Post("/job", jobHandler.Create)
				r.Get("/applications", appHandler.List)
				r.Get("/application/{job_id}", appHandler.ListByJob)
			})
		})
	})

	return r
}

// newHealthHandler はDB接続確認を含むヘルスチェックハンドラーを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeErrorResponse(w, http.StatusServiceUnavailable, "Database unavailable")
				return
			}
		}
		writeSuccess(w, http.StatusOK, "OK", nil)
	}
}
