package middleware

import (
	"net/http"

	"github.com/2beens/fittracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// LogRequest traces every request with its route template, so user ids stay
// in a field of their own.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := log.Fields{
				"route":  routeTemplate(r),
				"client": pkg.ClientIP(r),
				"ua":     r.Header.Get("User-Agent"),
			}
			if userID := mux.Vars(r)["id"]; userID != "" {
				fields["user"] = userID
			}
			log.WithFields(fields).Tracef("request %s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}
