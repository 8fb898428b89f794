package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobboard/internal/job"
	"github.com/hitoshi/jobboard/internal/model"
)

// JobServiceInterface は求人ハンドラーが必要とするサービスインターフェース。
type JobServiceInterface interface {
	Create(ctx context.Context, input job.CreateInput) (*model.Job, error)
	List(ctx context.Context, page int) ([]*model.Job, error)
	Get(ctx context.Context, id string) (*model.Job, error)
}

// JobHandler は求人管理のHTTPハンドラー。
type JobHandler struct {
	service JobServiceInterface
}

// NewJobHandler はJobHandlerを生成する。
func NewJobHandler(service JobServiceInterface) *JobHandler {
	return &JobHandler{service: service}
}

// createJobRequest は求人作成リクエストのボディ。
type createJobRequest struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
}

// jobResponse はAPIレスポンス用の求人表現。
type jobResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func toJobResponse(j *model.Job) jobResponse {
	return jobResponse{
		ID:          j.ID,
		Title:       j.Title,
		CompanyName: j.CompanyName,
		City:        j.City,
		Country:     j.Country,
		Salary:      j.Salary,
		Description: j.Description,
		CreatedAt:   j.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Create は求人を作成する。Adminロール必須（ルーティング側でゲート）。
// POST /api/job
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), job.CreateInput{
		Title:       req.Title,
		CompanyName: req.CompanyName,
		City:        req.City,
		Country:     req.Country,
		Salary:      req.Salary,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]string{
		"id": created.ID,
	})
}

// List は求人一覧をページ単位で返す。
// GET /api/jobs?page=N
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePageParam(r.URL.Query().Get("page"))

	jobs, err := h.service.List(r.Context(), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobResponse(j))
	}

	writeSuccess(w, http.StatusOK, "Jobs fetched", out)
}

// Get は指定IDの求人を返す。
// GET /api/job/{job_id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")

	j, err := h.service.Get(r.Context(), jobID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Jobs fetched", toJobResponse(j))
}

// parsePageParam はページ番号クエリを解析する。不正値は0として扱う。
func parsePageParam(raw string) int {
	if raw == "" {
		return 0
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0
	}
	return page
}
