package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/hitoshi/jobboard/internal/middleware"
	"github.com/hitoshi/jobboard/internal/upload"
)

// UploadServiceInterface はアップロードハンドラーが必要とするサービスインターフェース。
type UploadServiceInterface interface {
	SaveResume(ctx context.Context, userID, filename, contentType string, body io.Reader) (string, error)
}

// UploadHandler は履歴書アップロードのHTTPハンドラー。
type UploadHandler struct {
	service UploadServiceInterface
}

// NewUploadHandler はUploadHandlerを生成する。
func NewUploadHandler(service UploadServiceInterface) *UploadHandler {
	return &UploadHandler{service: service}
}

// UploadResume はmultipartボディから履歴書ファイルを受け取って保存する。
// 最初に現れた受理可能なファイルパートのみを処理する。
// PATCH /api/resume
func (h *UploadHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Multipart body required")
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid multipart body")
			return
		}

		if part.FileName() == "" {
			continue
		}

		contentType, _, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil || !upload.AllowedType(contentType) {
			continue
		}

		if _, err := h.service.SaveResume(r.Context(), identity.UserID, part.FileName(), contentType, part); err != nil {
			handleServiceError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, "Resume uploaded", nil)
		return
	}

	writeErrorResponse(w, http.StatusBadRequest, "No acceptable file found")
}
