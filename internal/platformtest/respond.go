package platformtest

import (
	"encoding/json"
	"net/http"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError uses the platform's "detail" envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Detail: msg})
}

func writeReservationError(w http.ResponseWriter, withCode bool, detail, code string) {
	resp := model.ErrorResponse{Detail: detail}
	if withCode {
		resp.Code = code
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
