package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GetFile streams a stored blob back to the client. Images render inline,
// everything else downloads.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	fileId := chi.URLParam(r, "fileId")

	info, data, err := h.pages.GetFile(fileId)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	disposition := "attachment"
	if strings.HasPrefix(info.MimeType, "image/") {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", info.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, info.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
