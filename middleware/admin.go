package middleware

import (
	"net/http"

	"influencia-backend/constants"
	"influencia-backend/utils"

	"github.com/rs/zerolog/log"
)

// RequireAdmin vérifie que le token porte le rôle admin (à placer après Auth)
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r.Context())
		if claims == nil {
			utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
			return
		}

		if claims.Role != utils.RoleAdmin {
			log.Warn().Str("subject", claims.Subject).Str("role", claims.Role).Msg("⚠️  Accès admin refusé")
			utils.RespondError(w, http.StatusForbidden, constants.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
