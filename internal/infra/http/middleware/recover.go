package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"runtime/debug"
)

// Recover turns panics into the JSON error envelope instead of a dropped
// connection. The stack is exposed to the client only outside production.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			stack := string(debug.Stack())
			log.Printf("Panic serving %s %s from %s: %v\n%s",
				r.Method, r.URL.Path, r.RemoteAddr, rec, stack)

			body := map[string]any{
				"success": false,
				"message": "Something went wrong. Please try again later.",
			}
			if os.Getenv("APP_ENV") != "production" {
				body["stack"] = stack
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(body)
		}()

		next.ServeHTTP(w, r)
	})
}
