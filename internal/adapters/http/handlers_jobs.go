package httpadapter

import (
	"errors"
	"net/http"
	"strings"

	"github.com/parseapp/docpreview/internal/core/domain"
)

var errJobIDRequired = errors.New("job id is required")

func (rt *Router) getJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "get job", errJobIDRequired))
		return
	}

	info, err := rt.jobs.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
