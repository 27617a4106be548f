package handlers

import (
	"net/http"

	"influencia-backend/constants"
	"influencia-backend/middleware"
	"influencia-backend/models"
	"influencia-backend/utils"

	"github.com/rs/zerolog/log"
)

// adminSubject est le sujet des tokens émis par la connexion admin
const adminSubject = "admin"

// AuthHandler gère la connexion au tableau de bord
type AuthHandler struct {
	passwordHash string
	jwtSecret    string
}

// LoginResponse est renvoyée après une connexion réussie
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// NewAuthHandler crée une nouvelle instance de AuthHandler
func NewAuthHandler(passwordHash, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
	}
}

// Login gère POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.AdminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !utils.CheckPassword(h.passwordHash, req.Password) {
		log.Warn().Str("ip", clientIP(r)).Msg("⚠️  Échec de connexion admin")
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(adminSubject, utils.RoleAdmin, h.jwtSecret)
	if err != nil {
		respondServerError(w, r, "Erreur génération token", err)
		return
	}

	log.Info().Str("ip", clientIP(r)).Msg("🔑 Connexion admin")
	utils.RespondSuccess(w, "Login successful", LoginResponse{
		Token:     token,
		ExpiresIn: int64(utils.TokenTTL.Seconds()),
	})
}

// Me gère GET /api/admin/me : renvoie l'identité portée par le token
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return
	}

	data := map[string]interface{}{
		"subject": claims.Subject,
		"role":    claims.Role,
	}
	if claims.ExpiresAt != nil {
		data["expiresAt"] = claims.ExpiresAt.Time
	}
	utils.RespondSuccess(w, "", data)
}
