package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipartOverhead leaves room for boundaries and headers around the file
const multipartOverhead = 1 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  services.Uploader
	maxBytes  int64
}

func newUploadHandler(uploader services.Uploader, maxBytes int64) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
		maxBytes:  maxBytes,
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// upload forwards the multipart "file" field to object storage
// @Summary Upload file
// @Accept multipart/form-data
// @Param file formData file true "File to upload"
// @Success 200 {object} envelope "Public URL of the stored file"
// @Failure 401 {object} envelope "Unauthorized"
// @Failure 413 {object} envelope "File too large"
// @Failure 503 {object} envelope "Uploads not configured"
// @Router /upload [post]
func (h uploadHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.uploader == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("File uploads are not configured"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, h.formFileError(err))
			return
		}
		defer file.Close()

		if header.Size > h.maxBytes {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxBytes))
			return
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = sniffContentType(file)
		}

		url, err := h.uploader.Upload(r.Context(), services.File{
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Upload failed", err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, "File uploaded", uploadResponse{URL: url})
	}
}

func (h uploadHandler) formFileError(err error) error {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return errs.NewMaxBodySizeExceededError(h.maxBytes)
	case errors.Is(err, http.ErrMissingFile):
		return errs.NewMissingRequiredFieldError("file")
	default:
		return errs.NewMalformedPayloadError(err)
	}
}

// sniffContentType inspects the first bytes and rewinds the file
func sniffContentType(file multipart.File) string {
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "application/octet-stream"
	}
	return http.DetectContentType(head[:n])
}
