package request

import (
	"net/http"
)

// BodyLimit caps request bodies at maxBytes using http.MaxBytesReader, so
// reads past the limit fail and the connection is closed. Apply it before
// any handler that parses the body.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
