package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"influencia-backend/constants"
	"influencia-backend/models"
	"influencia-backend/utils"
	"influencia-backend/websocket"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketStore est le sous-ensemble du repository utilisé par la vérification des billets
type TicketStore interface {
	FindByTicket(ctx context.Context, ticket string) (*models.Registration, error)
	CheckIn(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Registration, error)
}

// TicketHandler gère les e-pass et le check-in à l'entrée
type TicketHandler struct {
	store  TicketStore
	events EventPublisher
	now    func() time.Time
}

// NewTicketHandler crée une nouvelle instance
func NewTicketHandler(store TicketStore, events EventPublisher) *TicketHandler {
	return &TicketHandler{
		store:  store,
		events: publisherOrNoop(events),
		now:    time.Now,
	}
}

// findTicket résout {ticketId} et écrit le 404 si le billet n'existe pas
func (h *TicketHandler) findTicket(w http.ResponseWriter, r *http.Request) (*models.Registration, bool) {
	ticket := strings.TrimSpace(mux.Vars(r)["ticketId"])
	if ticket == "" {
		utils.RespondError(w, http.StatusNotFound, constants.ErrTicketNotFound)
		return nil, false
	}

	reg, err := h.store.FindByTicket(r.Context(), ticket)
	if err != nil {
		respondServerError(w, r, "Erreur recherche billet", err)
		return nil, false
	}
	if reg == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrTicketNotFound)
		return nil, false
	}
	return reg, true
}

// GetTicket gère GET /api/ticket/{ticketId} (qrCode ou ID)
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	reg, ok := h.findTicket(w, r)
	if !ok {
		return
	}

	utils.RespondJSON(w, http.StatusOK, models.TicketResponse{
		Status:   reg.TicketStatus(),
		Attendee: reg.TicketView(),
	})
}

// TicketQR gère GET /api/ticket/{ticketId}/qr.png
func (h *TicketHandler) TicketQR(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	reg, ok := h.findTicket(w, r)
	if !ok {
		return
	}

	size := utils.QRCodeSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 64 && n <= 1024 {
			size = n
		}
	}

	png, err := utils.QRCodePNG(reg.QRCode, size)
	if err != nil {
		respondServerError(w, r, "Erreur génération QR code", err)
		return
	}

	w.Header().Set(constants.HeaderContentType, "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// CheckIn gère POST /api/checkin : le scanner envoie le qrCode lu
func (h *TicketHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CheckInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	code := req.Code()
	if code == "" {
		utils.RespondError(w, http.StatusBadRequest, "qrCode is required")
		return
	}

	reg, err := h.store.FindByTicket(r.Context(), code)
	if err != nil {
		respondServerError(w, r, "Erreur recherche billet", err)
		return
	}
	if reg == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrTicketNotFound)
		return
	}
	if reg.Attended {
		respondAlreadyCheckedIn(w, reg)
		return
	}

	// Le filtre attended=false garantit qu'un seul scanner gagne
	updated, err := h.store.CheckIn(r.Context(), reg.ID, h.now())
	if err != nil {
		respondServerError(w, r, "Erreur check-in", err)
		return
	}
	if updated == nil {
		respondAlreadyCheckedIn(w, reg)
		return
	}

	log.Info().Str("id", updated.ID.Hex()).Msg("🎟️  Check-in")
	view := updated.TicketView()
	h.events.Publish(websocket.EventAttendeeCheckedIn, view)

	utils.RespondSuccess(w, "Check-in successful", models.TicketResponse{
		Status:   updated.TicketStatus(),
		Attendee: view,
	})
}

func respondAlreadyCheckedIn(w http.ResponseWriter, reg *models.Registration) {
	utils.RespondJSON(w, http.StatusConflict, map[string]interface{}{
		"success":  false,
		"error":    constants.ErrAlreadyCheckedIn,
		"attendee": reg.TicketView(),
	})
}
