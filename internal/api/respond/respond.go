package respond

import (
	"encoding/json"
	"net/http"
)

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK writes a 200 response with the given payload.
func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

// Accepted writes a 202 response with the given payload.
func Accepted(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusAccepted, response{Success: true, Data: data})
}

// Fail writes an error response with the given status code.
func Fail(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, response{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
