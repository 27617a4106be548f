package middleware

import (
	"net/http"
	"strconv"
	"time"

	"influencia-backend/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrorReporter reçoit les erreurs critiques (services.SlackService)
type ErrorReporter interface {
	SendCriticalError(method, path, statusCode, errorMessage, origin, userAgent string)
	SendCORSError(method, path, origin, userAgent string)
}

// responseWriter wrapper pour capturer le code de statut
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	corsRefused bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) markCORSRefused() {
	rw.corsRefused = true
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// isCriticalError détermine si une erreur doit être notifiée sur Slack :
// erreurs serveur (5xx) et refus CORS marqués par le middleware CORS
func isCriticalError(statusCode int, corsRefused bool) bool {
	return statusCode >= http.StatusInternalServerError || corsRefused
}

// Logging attribue un identifiant à chaque requête, journalise les erreurs
// et notifie les erreurs critiques
func Logging(reporter ErrorReporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(constants.HeaderRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(constants.HeaderRequestID, requestID)

			logger := log.With().Str("request_id", requestID).Logger()
			r = r.WithContext(logger.WithContext(r.Context()))

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			statusCode := rw.statusCode

			if statusCode < http.StatusBadRequest {
				logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Int("status", statusCode).Dur("duration", duration).Msg("→")
				return
			}

			logger.Warn().Str("method", r.Method).Str("path", r.RequestURI).Int("status", statusCode).Dur("duration", duration).Msg("⚠️")

			corsRefused := rw.corsRefused
			if reporter == nil || !isCriticalError(statusCode, corsRefused) {
				return
			}

			origin := r.Header.Get("Origin")
			method, path, userAgent := r.Method, r.RequestURI, r.UserAgent()
			go func() {
				if corsRefused {
					reporter.SendCORSError(method, path, origin, userAgent)
					return
				}
				reporter.SendCriticalError(method, path, strconv.Itoa(statusCode), http.StatusText(statusCode), origin, userAgent)
			}()
		})
	}
}
