package server

import (
	"encoding/json"
	"net/http"

	"github.com/redecred/redecred"
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// statusFor maps an application error code to an HTTP status.
func statusFor(err error) int {
	switch redecred.ErrorCode(err) {
	case redecred.EINVALID:
		return http.StatusBadRequest
	case redecred.ENOTFOUND:
		return http.StatusNotFound
	case redecred.EUNAVAILABLE:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
