package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// LoggerMiddleware logs every request and turns panics into a 500
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("panic", err).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Msg("request panicked")
				http.Error(rec, "Internal Server Error", http.StatusInternalServerError)
			}

			ev := log.Info()
			if rec.status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			ev.Str("method", r.Method).
				Str("url", r.URL.String()).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		}()

		next.ServeHTTP(rec, r)
	})
}
