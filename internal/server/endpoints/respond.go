package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jackzampolin/restyle/internal/catalog"
)

// maxBodyBytes bounds JSON request bodies. Prompts are short text.
const maxBodyBytes = 1 << 20

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeCatalogError maps catalog errors onto HTTP status codes.
func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrDuplicateName):
		writeError(w, http.StatusConflict, err.Error())
	case catalog.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrInvalidName), errors.Is(err, catalog.ErrInvalidText):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathIndex parses the {index} path value.
func pathIndex(r *http.Request) (int, error) {
	raw := r.PathValue("index")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid prompt index %q", raw)
	}
	return idx, nil
}
