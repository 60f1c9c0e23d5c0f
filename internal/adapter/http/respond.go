package http

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// respond writes data as JSON, or as MessagePack when the request carries
// format=msgpack. MessagePack reuses the json field names.
func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if r.URL.Query().Get("format") == "msgpack" {
		w.Header().Set("Content-Type", "application/x-msgpack")
		w.WriteHeader(status)
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		enc.Encode(data) //nolint:errcheck // headers already sent
		return
	}
	writeJSON(w, status, data)
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
