package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rakmedia/hr-backend-go/internal/handler/http/response"
)

// pathID reads a positive integer URL parameter. On failure it writes a 400
// and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid path parameter: "+name, nil)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into dst. An empty body leaves dst
// untouched. On failure it writes a 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}
