package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"influencia-backend/constants"
	"influencia-backend/models"
	"influencia-backend/utils"

	"github.com/rs/zerolog/log"
)

// Rate limiting : 5 alertes par minute et par IP
const (
	alertLimit  = 5
	alertWindow = time.Minute
)

// AlertStore est implémenté par database.AlertRepository
type AlertStore interface {
	Create(ctx context.Context, alert *models.CriticalAlert) error
	CountRecent(ctx context.Context, clientIP string, since time.Duration) (int64, error)
}

// AlertNotifier relaie une alerte (Slack)
type AlertNotifier interface {
	SendFrontendAlert(alert *models.CriticalAlert) error
}

// AlertHandler gère les alertes critiques
type AlertHandler struct {
	store    AlertStore
	notifier AlertNotifier
}

// NewAlertHandler crée une nouvelle instance
func NewAlertHandler(store AlertStore, notifier AlertNotifier) *AlertHandler {
	return &AlertHandler{
		store:    store,
		notifier: notifier,
	}
}

// SendCriticalAlert reçoit et traite une alerte critique du frontend
func (h *AlertHandler) SendCriticalAlert(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CriticalAlertRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ErrorType = strings.ToUpper(strings.TrimSpace(req.ErrorType))
	req.ErrorMessage = strings.TrimSpace(req.ErrorMessage)
	req.EndpointFailed = strings.TrimSpace(req.EndpointFailed)

	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err)
		return
	}

	req.ErrorMessage = truncateRunes(req.ErrorMessage, models.AlertMessageMaxLength)

	ip := clientIP(r)
	count, err := h.store.CountRecent(r.Context(), ip, alertWindow)
	if err != nil {
		log.Warn().Err(err).Msg("Erreur vérification rate limit")
	}
	if count >= alertLimit {
		w.Header().Set("Retry-After", "60")
		utils.RespondError(w, http.StatusTooManyRequests, constants.ErrTooManyAlerts)
		return
	}

	alert := &models.CriticalAlert{
		ErrorType:      req.ErrorType,
		ErrorMessage:   req.ErrorMessage,
		EndpointFailed: req.EndpointFailed,
		Page:           strings.TrimSpace(req.Page),
		ClientIP:       ip,
		UserAgent:      r.UserAgent(),
		CreatedAt:      time.Now(),
	}

	if h.notifier != nil {
		if err := h.notifier.SendFrontendAlert(alert); err != nil {
			log.Error().Err(err).Msg("❌ Erreur envoi alerte Slack")
		} else {
			alert.NotificationSent = true
		}
	}

	if err := h.store.Create(r.Context(), alert); err != nil {
		respondServerError(w, r, "Erreur enregistrement alerte", err)
		return
	}

	log.Warn().Str("type", alert.ErrorType).Str("endpoint", alert.EndpointFailed).Msg("🚨 Alerte critique reçue")
	utils.RespondSuccess(w, "Alert received", map[string]bool{"notificationSent": alert.NotificationSent})
}

// truncateRunes limite un texte à max caractères sans couper un caractère multi-octets
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
