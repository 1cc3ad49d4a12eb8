package middleware

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"dailyMotivatorAPI/internal/logger"
)

const requestInfoKey contextKey = "requestInfo"

// requestInfo is filled in by Auth once the caller is known.
type requestInfo struct {
	userID string
}

// RequestLogger writes one structured line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		info := &requestInfo{}

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestInfoKey, info)))

		event := logger.Info()
		if ww.statusCode >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", routeLabel(r)).
			Int("status", ww.statusCode).
			Dur("latency", time.Since(start)).
			Str("ip", clientIP(r)).
			Str("user_id", info.userID).
			Msg("request")
	})
}

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from panic")
				respondWithError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
