package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"influencia-backend/constants"
	"influencia-backend/database"
	"influencia-backend/models"
	"influencia-backend/utils"
	"influencia-backend/websocket"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VolunteerStore est implémenté par database.VolunteerRepository
type VolunteerStore interface {
	Create(ctx context.Context, v *models.Volunteer) error
	EmailExists(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error)
	FindAll(ctx context.Context, status string) ([]models.Volunteer, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Volunteer, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// VolunteerConfirmationSender envoie l'accusé de réception d'une candidature
type VolunteerConfirmationSender interface {
	SendVolunteerConfirmation(v *models.Volunteer) error
}

// VolunteerHandler gère les candidatures de bénévoles
type VolunteerHandler struct {
	store  VolunteerStore
	mailer VolunteerConfirmationSender
	events EventPublisher
}

// VolunteerSummary est renvoyé après une candidature
type VolunteerSummary struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Availability string    `json:"availability"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewVolunteerHandler crée une nouvelle instance
func NewVolunteerHandler(store VolunteerStore, mailer VolunteerConfirmationSender, events EventPublisher) *VolunteerHandler {
	return &VolunteerHandler{
		store:  store,
		mailer: mailer,
		events: publisherOrNoop(events),
	}
}

// Apply gère POST /api/volunteer
func (h *VolunteerHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.VolunteerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()

	if err := utils.FirstError(
		utils.ValidateRequired("fullName", req.FullName),
		utils.ValidateEmail(req.Email),
		utils.ValidateRequired("phone", req.Phone),
		utils.ValidateStruct(req),
	); err != nil {
		respondValidation(w, err)
		return
	}
	if !req.AgreeToTerms {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrTermsNotAccepted)
		return
	}

	exists, err := h.store.EmailExists(r.Context(), req.Email, primitive.NilObjectID)
	if err != nil {
		respondServerError(w, r, "Erreur vérification email bénévole", err)
		return
	}
	if exists {
		utils.RespondError(w, http.StatusConflict, constants.ErrEmailTaken)
		return
	}

	volunteer := &models.Volunteer{
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		Gender:             strings.TrimSpace(req.Gender),
		Age:                req.Age,
		City:               strings.TrimSpace(req.City),
		Occupation:         strings.TrimSpace(req.Occupation),
		Organization:       strings.TrimSpace(req.Organization),
		PreferredAreas:     req.PreferredAreas,
		Availability:       req.Availability,
		AvailabilityTime:   req.AvailabilityTime,
		PreviousExperience: strings.TrimSpace(req.PreviousExperience),
		Motivation:         strings.TrimSpace(req.Motivation),
		AgreeToTerms:       req.AgreeToTerms,
		ConsentToContact:   req.ConsentToContact,
		Status:             models.VolunteerStatusNew,
	}
	if volunteer.Availability != models.AvailabilityPartTime {
		volunteer.AvailabilityTime = ""
	}

	if err := h.store.Create(r.Context(), volunteer); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			utils.RespondError(w, http.StatusConflict, constants.ErrEmailTaken)
			return
		}
		respondServerError(w, r, "Erreur création bénévole", err)
		return
	}

	log.Info().Str("id", volunteer.ID.Hex()).Str("availability", volunteer.Availability).Msg("✅ Nouvelle candidature bénévole")

	summary := VolunteerSummary{
		ID:           volunteer.ID.Hex(),
		FullName:     volunteer.FullName,
		Email:        volunteer.Email,
		Availability: volunteer.Availability,
		Status:       volunteer.Status,
		CreatedAt:    volunteer.CreatedAt,
	}
	h.events.Publish(websocket.EventVolunteerCreated, summary)
	if h.mailer != nil {
		sent := *volunteer
		go func() {
			if err := h.mailer.SendVolunteerConfirmation(&sent); err != nil {
				log.Error().Err(err).Str("id", sent.ID.Hex()).Msg("❌ Erreur envoi confirmation bénévole")
			}
		}()
	}

	utils.RespondCreated(w, "Volunteer application received", summary)
}

// List gère GET /api/volunteers (?status= optionnel)
func (h *VolunteerHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	volunteers, err := h.store.FindAll(r.Context(), strings.TrimSpace(r.URL.Query().Get("status")))
	if err != nil {
		respondServerError(w, r, "Erreur récupération bénévoles", err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, volunteers)
}

// Update gère PUT /api/volunteers/{id} : {action:"delete"} ou patch
func (h *VolunteerHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	id, ok := ParseObjectIDVar(w, r, "id")
	if !ok {
		return
	}

	var req models.VolunteerUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch strings.TrimSpace(req.Action) {
	case constants.ActionDelete:
		h.softDelete(w, r, id)
		return
	case "":
	default:
		utils.RespondError(w, http.StatusBadRequest, constants.ErrUnknownAction)
		return
	}

	fields, err := h.buildPatch(r.Context(), id, &req)
	if err != nil {
		var verr utils.ValidationError
		switch {
		case errors.As(err, &verr):
			utils.RespondError(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, errEmailConflict):
			utils.RespondError(w, http.StatusConflict, constants.ErrEmailTaken)
		default:
			respondServerError(w, r, "Erreur vérification patch bénévole", err)
		}
		return
	}

	volunteer, err := h.store.UpdateFields(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			utils.RespondError(w, http.StatusConflict, constants.ErrEmailTaken)
			return
		}
		respondServerError(w, r, "Erreur mise à jour bénévole", err)
		return
	}
	if volunteer == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrVolunteerNotFound)
		return
	}

	utils.RespondSuccess(w, "Volunteer updated", volunteer)
}

func (h *VolunteerHandler) buildPatch(ctx context.Context, id primitive.ObjectID, req *models.VolunteerUpdateRequest) (bson.M, error) {
	if req.Availability != nil {
		availability := strings.ToLower(strings.TrimSpace(*req.Availability))
		req.Availability = &availability
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	fields := bson.M{}
	setString(fields, "fullName", req.FullName)
	setString(fields, "phone", req.Phone)
	setString(fields, "gender", req.Gender)
	setValue(fields, "age", req.Age)
	setString(fields, "city", req.City)
	setString(fields, "occupation", req.Occupation)
	setString(fields, "organization", req.Organization)
	setList(fields, "preferredAreas", req.PreferredAreas)
	setValue(fields, "availability", req.Availability)
	setString(fields, "availabilityTime", req.AvailabilityTime)
	setString(fields, "previousExperience", req.PreviousExperience)
	setString(fields, "motivation", req.Motivation)
	setValue(fields, "consentToContact", req.ConsentToContact)
	setString(fields, "status", req.Status)

	if err := requireNonEmpty(fields, "fullName", "phone", "status"); err != nil {
		return nil, err
	}
	if availability, ok := fields["availability"]; ok {
		if availability == models.AvailabilityPartTime {
			if err := requireNonEmpty(fields, "availabilityTime"); err != nil || req.AvailabilityTime == nil {
				return nil, utils.ValidationError{Field: "availabilityTime", Message: "availabilityTime is required"}
			}
		} else {
			// Même règle qu'à la candidature : le créneau n'a de sens qu'à temps partiel
			fields["availabilityTime"] = ""
		}
	}

	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		if err := utils.ValidateEmail(email); err != nil {
			return nil, err
		}
		exists, err := h.store.EmailExists(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errEmailConflict
		}
		fields["email"] = email
	}

	if len(fields) == 0 {
		return nil, utils.ValidationError{Message: constants.ErrNothingToUpdate}
	}
	return fields, nil
}

// Delete gère DELETE /api/volunteers/{id}
func (h *VolunteerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id, ok := ParseObjectIDVar(w, r, "id")
	if !ok {
		return
	}
	h.softDelete(w, r, id)
}

func (h *VolunteerHandler) softDelete(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	deleted, err := h.store.SoftDelete(r.Context(), id)
	if err != nil {
		respondServerError(w, r, "Erreur suppression bénévole", err)
		return
	}
	if !deleted {
		utils.RespondError(w, http.StatusNotFound, constants.ErrVolunteerNotFound)
		return
	}

	log.Info().Str("id", id.Hex()).Msg("🗑️  Bénévole supprimé")
	utils.RespondSuccess(w, "Volunteer deleted", map[string]string{"id": id.Hex()})
}
