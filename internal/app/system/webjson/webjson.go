// Package webjson holds the small JSON request/response helpers shared by
// every API handler.
package webjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps JSON request bodies. Uploads use their own multipart
// limits and do not go through Decode.
const MaxBodyBytes = 1 << 20 // 1 MiB

// Respond writes v as a JSON body with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes the uniform error envelope {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]string{"error": msg})
}

// Decode reads a JSON body into dst, rejecting unknown fields and trailing
// garbage. The returned error message is safe to echo to the caller.
func Decode(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return fmt.Errorf("request body is empty")
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body too large")
		default:
			return fmt.Errorf("invalid JSON body")
		}
	}
	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
