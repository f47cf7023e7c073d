package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/Harshitk-cp/frontdesk/internal/api/middleware"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a bounded JSON body into v. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// callerSession scopes gate state for an HTTP call. A session is only
// trusted from a caller that authenticated with the API key; anonymous calls
// are all keyed on the client host, so rotating sessions or source ports
// does not reset PIN attempt counting.
func callerSession(session string, r *http.Request) string {
	if client := middleware.ClientFromContext(r.Context()); client != "" {
		if session == "" {
			return "key:" + client
		}
		return "key:" + client + ":" + session
	}
	return "http:" + clientHost(r)
}

// clientHost is the caller address without its port. RealIP has already
// replaced RemoteAddr when a proxy header was present.
func clientHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
