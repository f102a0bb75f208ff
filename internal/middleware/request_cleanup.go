package middleware

import (
	"io"
	"net/http"
)

// BoundedBody caps request bodies at maxBytes. Once the handler returns, what
// is left of the body (never more than the cap) is drained and the body closed.
func BoundedBody(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			body := http.MaxBytesReader(w, r.Body, maxBytes)
			r.Body = body
			next.ServeHTTP(w, r)

			_, _ = io.Copy(io.Discard, body)
			_ = body.Close()
		})
	}
}
