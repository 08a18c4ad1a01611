package httpadapter

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/parseapp/docpreview/internal/core/domain"
)

// filePart walks the multipart stream until the "file" field, so the
// body is never buffered ahead of the size-capped copy.
func filePart(r *http.Request) (*multipart.Part, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read multipart body", err)
	}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, domain.WrapError(
				domain.ErrInvalidInput,
				"read multipart body",
				errors.New("multipart field 'file' is required"),
			)
		}
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "read multipart body", err)
		}
		if part.FormName() == "file" {
			return part, nil
		}
		_ = part.Close()
	}
}

func (rt *Router) uploadFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	part, err := filePart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer part.Close()

	mime := part.Header.Get("Content-Type")
	file, err := rt.uploader.Upload(r.Context(), mime, part.FileName(), part)
	if err != nil {
		rt.recordUpload(mime, "sync", err, 0)
		writeError(w, err)
		return
	}

	rt.recordUpload(mime, "sync", nil, file.Size)
	if rt.metrics != nil && file.Preview != nil && strings.HasPrefix(*file.Preview, "Parsing failed:") {
		rt.metrics.RecordPreviewFailure(serviceName, mime)
	}
	writeJSON(w, http.StatusOK, file)
}

func (rt *Router) uploadFileAsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	part, err := filePart(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer part.Close()

	mime := part.Header.Get("Content-Type")
	job, err := rt.uploader.UploadAsync(r.Context(), mime, part.FileName(), part)
	if err != nil {
		rt.recordUpload(mime, "async", err, 0)
		writeError(w, err)
		return
	}

	rt.recordUpload(mime, "async", nil, job.Size)
	writeJSON(w, http.StatusAccepted, job.Info())
}

func (rt *Router) filesByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/files/")

	if id == "" {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		files, err := rt.files.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, files)
		return
	}

	switch r.Method {
	case http.MethodGet:
		file, err := rt.files.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, file)
	case http.MethodDelete:
		file, err := rt.files.Delete(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, file)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) recordUpload(mime, mode string, err error, size int64) {
	if rt.metrics == nil {
		return
	}

	status := "accepted"
	switch {
	case err == nil:
	case domain.IsKind(err, domain.ErrUnsupportedMedia):
		status = "unsupported"
	case domain.IsKind(err, domain.ErrInvalidInput):
		status = "invalid"
	case domain.IsKind(err, domain.ErrPayloadTooLarge):
		status = "too_large"
	default:
		status = "error"
	}
	rt.metrics.RecordUpload(serviceName, mime, mode, status, size)
}
