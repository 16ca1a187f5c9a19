package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/KareemHegazy123/WikiApp/internal/api"
	"github.com/KareemHegazy123/WikiApp/internal/domain"
	"github.com/KareemHegazy123/WikiApp/internal/logger"
	"github.com/KareemHegazy123/WikiApp/internal/validation"
)

func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.ListAllPages()
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.PageListResponse{Pages: pages})
}

func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	page, err := h.pages.GetPage(name)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	html, err := h.renderer.Render(page.Content)
	if err != nil {
		// serve the raw page rather than failing the read
		logger.Log.Error("markdown rendering failed", "page", page.Name, "error", err)
	}

	writeJSON(w, api.PageResponse{Page: *page, Html: html})
}

func (h *Handler) SavePage(w http.ResponseWriter, r *http.Request) {
	var body api.SavePageRequest
	var upload *domain.PendingUpload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		// attachment payload plus a buffer for form fields and multipart overhead
		maxRequestSize := h.cfg.MaxAttachmentBytes + 1<<20
		if err := validation.ValidateAndParseMultipart(r, w, maxRequestSize); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}

		jsonPayload := r.FormValue("json")
		if jsonPayload == "" {
			http.Error(w, "missing json form field", http.StatusBadRequest)
			return
		}
		if err := decodeValidate(strings.NewReader(jsonPayload), &body); err != nil {
			writeErrorAndStatusCode(w, err)
			return
		}

		if files := r.MultipartForm.File["attachment"]; len(files) > 0 {
			var err error
			upload, err = validation.ValidateUpload(files[0], h.cfg.AllowedMimeTypes, h.cfg.MaxAttachmentBytes)
			if err != nil {
				// 413 for size errors, 400 for everything else
				statusCode := http.StatusBadRequest
				if errors.Is(err, validation.ErrPayloadTooLarge) {
					statusCode = http.StatusRequestEntityTooLarge
				}
				http.Error(w, err.Error(), statusCode)
				return
			}
			if closer, ok := upload.Data.(io.Closer); ok {
				defer closer.Close()
			}
		}
	} else {
		if err := decodeValidate(r.Body, &body); err != nil {
			writeErrorAndStatusCode(w, err)
			return
		}
	}

	page, err := h.pages.SavePage(domain.PageSaveData{
		Id:      body.Id,
		Name:    body.Name,
		Content: body.Content,
		Upload:  upload,
	})
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.PageResponse{Page: *page})
}

func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(chi.URLParam(r, "id"), "page id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.pages.DeletePage(id); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(chi.URLParam(r, "id"), "page id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fileId := chi.URLParam(r, "fileId")

	page, err := h.pages.DeleteAttachment(id, fileId)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.PageResponse{Page: *page})
}
