package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobboard/internal/middleware"
	"github.com/hitoshi/jobboard/internal/model"
)

// ApplicationServiceInterface は応募ハンドラーが必要とするサービスインターフェース。
type ApplicationServiceInterface interface {
	Apply(ctx context.Context, userID, jobID string) (*model.Application, error)
	List(ctx context.Context, page int) ([]model.ApplicationWithApplicant, error)
	ListByJob(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error)
}

// ApplicationHandler は応募管理のHTTPハンドラー。
type ApplicationHandler struct {
	service ApplicationServiceInterface
}

// NewApplicationHandler はApplicationHandlerを生成する。
func NewApplicationHandler(service ApplicationServiceInterface) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// applyRequest は応募リクエストのボディ。
type applyRequest struct {
	JobID string `json:"job_id"`
}

// applicationResponse はAPIレスポンス用の応募表現。
type applicationResponse struct {
	ID          string `json:"id"`
	JobID       string `json:"job_id"`
	ApplicantID string `json:"applicant_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CreatedAt   string `json:"created_at"`
}

func toApplicationResponses(apps []model.ApplicationWithApplicant) []applicationResponse {
	out := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, applicationResponse{
			ID:          a.ID,
			JobID:       a.JobID,
			ApplicantID: a.ApplicantID,
			FirstName:   a.FirstName,
			LastName:    a.LastName,
			CreatedAt:   a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return out
}

// Apply は認証済みユーザーの応募を登録する。既応募の場合も成功として返す。
// POST /api/application
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	app, err := h.service.Apply(r.Context(), identity.UserID, req.JobID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Application submitted", map[string]string{
		"id": app.ID,
	})
}

// List は全応募を応募者情報付きで返す。Adminロール必須（ルーティング側でゲート）。
// GET /api/applications?page=N
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r.URL.Query().Get("page"))

	apps, err := h.service.List(r.Context(), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Applications fetched", toApplicationResponses(apps))
}

// ListByJob は指定求人の応募を返す。Adminロール必須（ルーティング側でゲート）。
// GET /api/application/{job_id}
func (h *ApplicationHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	apps, err := h.service.ListByJob(r.Context(), jobID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Applications fetched", toApplicationResponses(apps))
}
