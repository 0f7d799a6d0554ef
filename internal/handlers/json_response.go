package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"workforce/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeJSONError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{"error": code, "message": message})
}

// writeAppError maps a service error onto the JSON error contract. Unknown
// errors become a generic 500 and the detail stays in the log.
func writeAppError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error().Err(appErr.Err).Msg("request failed")
	}
	writeJSONError(w, appErr.StatusCode, appErr.Code, appErr.Message)
}

type pagination struct {
	Limit  int
	Offset int
}

func parsePaginationParams(r *http.Request, defaultLimit int, maxLimit int) (pagination, error) {
	p := pagination{Limit: defaultLimit}

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("invalid limit %q", v)
		}
		if n > maxLimit {
			n = maxLimit
		}
		p.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid offset %q", v)
		}
		p.Offset = n
	}
	return p, nil
}
