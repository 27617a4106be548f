package middleware

import (
	"net/http"
)

// isOriginAllowed vérifie qu'une origine figure dans la liste (ou que "*" est autorisé)
func isOriginAllowed(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}
	return false
}

func allowsAny(allowedOrigins []string) bool {
	for _, o := range allowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// corsRefusalMarker est implémenté par le writer du middleware Logging, pour que
// seuls les vrais refus CORS soient signalés
type corsRefusalMarker interface {
	markCORSRefused()
}

// CORS gère les en-têtes CORS. Avec "*", toutes les origines sont acceptées
// et la réponse porte toujours Access-Control-Allow-Origin: *.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := allowsAny(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := isOriginAllowed(origin, allowedOrigins)

			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			// Gérer les requêtes OPTIONS (preflight)
			if r.Method == http.MethodOptions {
				if origin != "" && !allowed {
					if m, ok := w.(corsRefusalMarker); ok {
						m.markCORSRefused()
					}
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
