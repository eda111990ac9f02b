package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, map[string]string{
		"error":  message,
		"detail": detail,
	})
}

// queryInt64 parses an optional int64 query parameter. Missing values
// return (nil, true).
func queryInt64(r *http.Request, name string) (*int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}

	return &v, true
}
