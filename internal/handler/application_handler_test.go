package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/jobboard/internal/middleware"
	"github.com/hitoshi/jobboard/internal/model"
)

type mockApplicationService struct {
	applyFn     func(ctx context.Context, userID, jobID string) (*model.Application, error)
	listFn      func(ctx context.Context, page int) ([]model.ApplicationWithApplicant, error)
	listByJobFn func(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error)
}

func (m *mockApplicationService) Apply(ctx context.Context, userID, jobID string) (*model.Application, error) {
	if m.applyFn != nil {
		return m.applyFn(ctx, userID, jobID)
	}
	return &model.Application{ID: "app-1", UserID: userID, JobID: jobID}, nil
}

func (m *mockApplicationService) List(ctx context.Context, page int) ([]model.ApplicationWithApplicant, error) {
	if m.listFn != nil {
		return m.listFn(ctx, page)
	}
	return nil, nil
}

func (m *mockApplicationService) ListByJob(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error) {
	if m.listByJobFn != nil {
		return m.listByJobFn(ctx, jobID)
	}
	return nil, nil
}

var _ ApplicationServiceInterface = (*mockApplicationService)(nil)

func authenticatedRequest(method, target, body string, identity *model.Identity) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.ContextWithIdentity(req.Context(), identity))
}

func TestApply_Success(t *testing.T) {
	var gotUserID, gotJobID string
	svc := &mockApplicationService{
		applyFn: func(ctx context.Context, userID, jobID string) (*model.Application, error) {
			gotUserID, gotJobID = userID, jobID
			return &model.Application{ID: "app-1"}, nil
		},
	}
	h := NewApplicationHandler(svc)

	req := authenticatedRequest(http.MethodPost, "/api/application",
		`{"job_id":"job-1"}`, &model.Identity{UserID: "user-1", Role: model.RoleUser})
	rec := httptest.NewRecorder()
	h.Apply(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// 応募者IDはリクエストボディではなくIdentityから取ること
	if gotUserID != "user-1" || gotJobID != "job-1" {
		t.Errorf("apply args = %q/%q, want user-1/job-1", gotUserID, gotJobID)
	}

	env := decodeEnvelope(t, rec)
	if env["message"] != "Application submitted" {
		t.Errorf("message = %v, want Application submitted", env["message"])
	}
}

func TestApply_WithoutIdentity_Returns401(t *testing.T) {
	h := NewApplicationHandler(&mockApplicationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/application", strings.NewReader(`{"job_id":"job-1"}`))
	rec := httptest.NewRecorder()
	h.Apply(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestApply_JobNotFound_Returns404(t *testing.T) {
	svc := &mockApplicationService{
		applyFn: func(ctx context.Context, userID, jobID string) (*model.Application, error) {
			return nil, model.NewNotFoundError("job")
		},
	}
	h := NewApplicationHandler(svc)

	req := authenticatedRequest(http.MethodPost, "/api/application",
		`{"job_id":"missing"}`, &model.Identity{UserID: "user-1", Role: model.RoleUser})
	rec := httptest.NewRecorder()
	h.Apply(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestApplicationList_ReturnsApplicants(t *testing.T) {
	svc := &mockApplicationService{
		listFn: func(ctx context.Context, page int) ([]model.ApplicationWithApplicant, error) {
			return []model.ApplicationWithApplicant{
				{
					Application: model.Application{ID: "app-1", JobID: "job-1"},
					ApplicantID: "user-1",
					FirstName:   "Taro",
					LastName:    "Yamada",
				},
			}, nil
		},
	}
	h := NewApplicationHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env["message"] != "Applications fetched" {
		t.Errorf("message = %v, want Applications fetched", env["message"])
	}
	data := env["data"].([]interface{})
	entry := data[0].(map[string]interface{})
	if entry["first_name"] != "Taro" || entry["applicant_id"] != "user-1" {
		t.Errorf("entry = %v, want applicant fields", entry)
	}
}

func TestApplicationListByJob_PassesJobID(t *testing.T) {
	var gotJobID string
	svc := &mockApplicationService{
		listByJobFn: func(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error) {
			gotJobID = jobID
			return nil, nil
		},
	}
	h := NewApplicationHandler(svc)

	req := chiRequest(http.MethodGet, "/api/application/job-1", "job_id", "job-1")
	rec := httptest.NewRecorder()
	h.ListByJob(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotJobID != "job-1" {
		t.Errorf("jobID = %q, want job-1", gotJobID)
	}
}

func TestApplicationListByJob_InvalidID_Returns400(t *testing.T) {
	svc := &mockApplicationService{
		listByJobFn: func(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error) {
			return nil, model.NewValidationError("invalid job id")
		},
	}
	h := NewApplicationHandler(svc)

	req := chiRequest(http.MethodGet, "/api/application/nope", "job_id", "nope")
	rec := httptest.NewRecorder()
	h.ListByJob(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
