package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes bounds how much of an unread body is discarded before closing.
const maxDrainBytes = 64 << 10

// DrainAndCloseRequest drains whatever the handler left unread in the request
// body and closes it, so the underlying connection can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil || r.Body == http.NoBody {
				return
			}
			_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxDrainBytes))
			_ = r.Body.Close()
		})
	}
}
