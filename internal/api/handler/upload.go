package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/sop-assistant/internal/api/response"
	"github.com/Rrens/sop-assistant/internal/domain"
)

// UploadHandler handles screenshot uploads
type UploadHandler struct {
	files    domain.FileStore
	maxBytes int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(files domain.FileStore, maxBytes int64) *UploadHandler {
	return &UploadHandler{files: files, maxBytes: maxBytes}
}

// UploadImage stores the multipart "image" field and answers {url}
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		response.BadRequest(w, domain.ErrInvalidImage.Error())
		return
	}

	url, err := h.files.Save(r.Context(), header.Filename, file)
	if err != nil {
		fail(w, r, err)
		return
	}

	log.Debug().Str("url", url).Int64("size", header.Size).Msg("Image uploaded")
	response.Plain(w, http.StatusOK, map[string]string{"url": url})
}
