// Package handlers provides HTTP handlers for the contract API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/ingest"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/observability"
)

// maxMemory bounds the multipart form kept in memory; larger uploads spill
// to temp files.
const maxMemory = 32 << 20

// Ingester stores uploaded documents.
type Ingester interface {
	Ingest(ctx context.Context, up ingest.Upload) (*domain.IngestResult, error)
}

// Answerer serves questions about stored documents.
type Answerer interface {
	Summarize(ctx context.Context, documentID string) (string, error)
	Query(ctx context.Context, documentID, question string) (string, error)
	Document(ctx context.Context, documentID string) (*domain.Record, error)
}

// DocumentHandler handles upload, summarize and query requests.
type DocumentHandler struct {
	logger   *observability.Logger
	ingester Ingester
	answerer Answerer
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(logger *observability.Logger, ingester Ingester, answerer Answerer) *DocumentHandler {
	return &DocumentHandler{
		logger:   logger,
		ingester: ingester,
		answerer: answerer,
	}
}

// UploadResponseDTO is the body returned by POST /upload.
type UploadResponseDTO struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"documentId,omitempty"`
	Filename   string `json:"filename,omitempty"`
	Error      string `json:"error,omitempty"`
}

// SummarizeRequestDTO is the body of POST /summarize.
type SummarizeRequestDTO struct {
	DocumentID string `json:"documentId"`
}

// QueryRequestDTO is the body of POST /query.
type QueryRequestDTO struct {
	DocumentID string `json:"documentId"`
	Query      string `json:"query"`
}

// DocumentDTO is the body returned by GET /documents/{documentId}.
type DocumentDTO struct {
	DocumentID string            `json:"documentId"`
	Filename   string            `json:"filename"`
	Content    map[string]string `json:"content"`
}

// Upload handles POST /upload.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.writeUploadError(w, r, domain.BadRequestError("invalid multipart form", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			h.writeUploadError(w, r, domain.BadRequestError("No file part", nil))
			return
		}
		h.writeUploadError(w, r, domain.BadRequestError("invalid upload", err))
		return
	}
	defer file.Close()

	res, err := h.ingester.Ingest(r.Context(), ingest.Upload{Filename: header.Filename, Body: file})
	if err != nil {
		h.writeUploadError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponseDTO{
		Success:    true,
		DocumentID: res.DocumentID,
		Filename:   res.Filename,
	})
}

// Summarize handles POST /summarize.
func (h *DocumentHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domain.BadRequestError("invalid JSON body", err))
		return
	}

	summary, err := h.answerer.Summarize(r.Context(), req.DocumentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// Query handles POST /query.
func (h *DocumentHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domain.BadRequestError("invalid JSON body", err))
		return
	}

	answer, err := h.answerer.Query(r.Context(), req.DocumentID, req.Query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": answer})
}

// Get handles GET /documents/{documentId}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentId")

	rec, err := h.answerer.Document(r.Context(), documentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DocumentDTO{
		DocumentID: documentID,
		Filename:   rec.Filename,
		Content:    rec.Content,
	})
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch domain.ErrorTypeOf(err) {
	case domain.ErrorTypeBadRequest:
		return http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeDocumentFormat, domain.ErrorTypeExtraction:
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (h *DocumentHandler) logFailure(r *http.Request, status int, err error) {
	event := h.logger.WithContext(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = h.logger.WithContext(r.Context()).Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
}

func (h *DocumentHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	h.logFailure(r, status, err)
	writeJSON(w, status, map[string]string{"error": domain.UserMessage(err)})
}

func (h *DocumentHandler) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	h.logFailure(r, status, err)
	writeJSON(w, status, UploadResponseDTO{Success: false, Error: domain.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
