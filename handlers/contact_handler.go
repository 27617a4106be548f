package handlers

import (
	"context"
	"net/http"
	"strings"

	"influencia-backend/constants"
	"influencia-backend/models"
	"influencia-backend/utils"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactStore est implémenté par database.ContactRepository
type ContactStore interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	FindAll(ctx context.Context) ([]models.ContactMessage, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.ContactMessage, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// ContactHandler gère les messages du formulaire de contact
type ContactHandler struct {
	store ContactStore
}

// NewContactHandler crée une nouvelle instance
func NewContactHandler(store ContactStore) *ContactHandler {
	return &ContactHandler{store: store}
}

// Create gère POST /api/contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = models.NormalizeEmail(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if err := utils.FirstError(utils.ValidateStruct(req), utils.ValidateEmail(req.Email)); err != nil {
		respondValidation(w, err)
		return
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
	}
	if err := h.store.Create(r.Context(), msg); err != nil {
		respondServerError(w, r, "Erreur enregistrement message", err)
		return
	}

	log.Info().Str("id", msg.ID.Hex()).Msg("✉️  Nouveau message de contact")
	utils.RespondCreated(w, "Message received", msg)
}

// List gère GET /api/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	messages, err := h.store.FindAll(r.Context())
	if err != nil {
		respondServerError(w, r, "Erreur récupération messages", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

// Update gère PUT /api/contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	id, ok := ParseObjectIDVar(w, r, "id")
	if !ok {
		return
	}

	var req models.ContactUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err)
		return
	}

	fields := bson.M{}
	setString(fields, "name", req.Name)
	setString(fields, "phone", req.Phone)
	setString(fields, "subject", req.Subject)
	setString(fields, "message", req.Message)
	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		if err := utils.ValidateEmail(email); err != nil {
			respondValidation(w, err)
			return
		}
		fields["email"] = email
	}

	if err := requireNonEmpty(fields, "name", "message"); err != nil {
		respondValidation(w, err)
		return
	}
	if len(fields) == 0 {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrNothingToUpdate)
		return
	}

	msg, err := h.store.UpdateFields(r.Context(), id, fields)
	if err != nil {
		respondServerError(w, r, "Erreur mise à jour message", err)
		return
	}
	if msg == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrContactNotFound)
		return
	}
	utils.RespondSuccess(w, "Message updated", msg)
}

// Delete gère DELETE /api/contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id, ok := ParseObjectIDVar(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.store.SoftDelete(r.Context(), id)
	if err != nil {
		respondServerError(w, r, "Erreur suppression message", err)
		return
	}
	if !deleted {
		utils.RespondError(w, http.StatusNotFound, constants.ErrContactNotFound)
		return
	}
	utils.RespondSuccess(w, "Message deleted", map[string]string{"id": id.Hex()})
}
