package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/BasanLidzhiev/bank-rest/internal/apperr"
)

type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string) {
	WriteJSON(w, status, APIError{Error: msg, Code: code})
}

// WriteAppErr translates a core error into its wire response. Unknown
// errors map to 500 without leaking their message.
func WriteAppErr(w http.ResponseWriter, err error) {
	if code := apperr.CodeOf(err); code != "" {
		WriteError(w, apperr.HTTPStatus(err), string(code), err.Error())
		return
	}
	WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
