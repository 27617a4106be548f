package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
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

// RegistrationStore est implémenté par database.RegistrationRepository
type RegistrationStore interface {
	Create(ctx context.Context, reg *models.Registration) error
	EmailExists(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error)
	FindAll(ctx context.Context, f models.RegistrationFilter) ([]models.Registration, error)
	FindByTicket(ctx context.Context, ticket string) (*models.Registration, error)
	ToggleAttendance(ctx context.Context, id primitive.ObjectID) (*models.Registration, error)
	CheckIn(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Registration, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Registration, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// EPassSender envoie l'e-pass par email
type EPassSender interface {
	SendEPass(reg *models.Registration) error
}

// RegistrationHandler gère les inscriptions à l'événement
type RegistrationHandler struct {
	store  RegistrationStore
	mailer EPassSender
	events EventPublisher
}

// NewRegistrationHandler crée une nouvelle instance
func NewRegistrationHandler(store RegistrationStore, mailer EPassSender, events EventPublisher) *RegistrationHandler {
	return &RegistrationHandler{
		store:  store,
		mailer: mailer,
		events: publisherOrNoop(events),
	}
}

// Register gère POST /api/register (formulaire court ou complet)
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()

	if err := utils.FirstError(
		utils.ValidateRequired("fullName", req.FullName),
		utils.ValidateEmail(req.Email),
		utils.ValidateRequired("contactNumber", req.ContactNumber),
		utils.ValidateStruct(req),
	); err != nil {
		respondValidation(w, err)
		return
	}

	exists, err := h.store.EmailExists(r.Context(), req.Email, primitive.NilObjectID)
	if err != nil {
		respondServerError(w, r, "Erreur vérification email", err)
		return
	}
	if exists {
		utils.RespondError(w, http.StatusConflict, constants.ErrEmailTaken)
		return
	}

	ticketType := req.TicketType
	if ticketType == "" {
		ticketType = models.TicketStandard
	}

	// L'ID est connu avant l'insertion : le qrCode part dans la même écriture
	id := primitive.NewObjectID()
	reg := &models.Registration{
		ID:            id,
		FullName:      req.FullName,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		BusinessName:  strings.TrimSpace(req.BusinessName),
		Designation:   strings.TrimSpace(req.Designation),
		Sectors:       req.Sectors,
		Experience:    strings.TrimSpace(req.Experience),
		Achievements:  strings.TrimSpace(req.Achievements),
		FuturePlan:    strings.TrimSpace(req.FuturePlan),
		TicketType:    ticketType,
		PaymentStatus: models.PaymentPending,
		QRCode:        utils.GenerateQRCode(id),
	}

	if err := h.store.Create(r.Context(), reg); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			utils.RespondError(w, http.StatusConflict, constants.ErrEmailTaken)
			return
		}
		respondServerError(w, r, "Erreur création inscription", err)
		return
	}

	log.Info().Str("id", reg.ID.Hex()).Str("ticket", reg.TicketType).Msg("✅ Nouvelle inscription")

	summary := reg.Summary()
	h.events.Publish(websocket.EventRegistrationCreated, summary)
	if h.mailer != nil {
		sent := *reg
		go func() {
			if err := h.mailer.SendEPass(&sent); err != nil {
				log.Error().Err(err).Str("id", sent.ID.Hex()).Msg("❌ Erreur envoi e-pass")
			}
		}()
	}

	utils.RespondCreated(w, "Registration successful", summary)
}

// parseRegistrationFilter lit les filtres de la liste admin
func parseRegistrationFilter(r *http.Request) (models.RegistrationFilter, error) {
	q := r.URL.Query()
	f := models.RegistrationFilter{
		PaymentStatus: strings.TrimSpace(q.Get("paymentStatus")),
		TicketType:    strings.TrimSpace(q.Get("ticketType")),
		Search:        strings.TrimSpace(q.Get("q")),
	}
	if raw := q.Get("attended"); raw != "" {
		attended, err := strconv.ParseBool(raw)
		if err != nil {
			return f, utils.ValidationError{Field: "attended", Message: "attended must be true or false"}
		}
		f.Attended = &attended
	}
	for _, bound := range []struct {
		key      string
		dst      **time.Time
		endOfDay bool
	}{{"from", &f.From, false}, {"to", &f.To, true}} {
		raw := q.Get(bound.key)
		if raw == "" {
			continue
		}
		t, err := models.ParseFlexibleTime(raw, bound.endOfDay)
		if err != nil {
			return f, utils.ValidationError{Field: bound.key, Message: bound.key + " must be a date (YYYY-MM-DD or ISO 8601)"}
		}
		*bound.dst = &t
	}
	return f, nil
}

// List gère GET /api/registrations
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	filter, err := parseRegistrationFilter(r)
	if err != nil {
		respondValidation(w, err)
		return
	}

	registrations, err := h.store.FindAll(r.Context(), filter)
	if err != nil {
		respondServerError(w, r, "Erreur récupération inscriptions", err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, registrations)
}

// UpdateAttendee gère PUT /api/attendees/{id} : action ou patch de champs
func (h *RegistrationHandler) UpdateAttendee(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	id, ok := ParseObjectIDVar(w, r, "id")
	if !ok {
		return
	}

	var req models.RegistrationUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		reg     *models.Registration
		err     error
		message string
	)

	switch strings.TrimSpace(req.Action) {
	case constants.ActionToggleAttendance:
		reg, err = h.store.ToggleAttendance(r.Context(), id)
		message = "Attendance updated"

	case constants.ActionConfirmPayment:
		reg, err = h.store.UpdateFields(r.Context(), id, bson.M{"paymentStatus": models.PaymentConfirmed})
		message = "Payment confirmed"

	case constants.ActionDelete:
		h.softDelete(w, r, id)
		return

	case "":
		fields, perr := h.buildPatch(r.Context(), id, &req)
		if perr != nil {
			h.respondPatchError(w, r, perr)
			return
		}
		reg, err = h.store.UpdateFields(r.Context(), id, fields)
		message = "Attendee updated"

	default:
		utils.RespondError(w, http.StatusBadRequest, constants.ErrUnknownAction)
		return
	}

	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			utils.RespondError(w, http.StatusConflict, constants.ErrEmailTaken)
			return
		}
		respondServerError(w, r, "Erreur mise à jour participant", err)
		return
	}
	if reg == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrRegistrationMissing)
		return
	}

	h.events.Publish(websocket.EventAttendeeUpdated, reg)
	utils.RespondSuccess(w, message, reg)
}

// errEmailConflict signale un email déjà pris lors d'un patch
var errEmailConflict = errors.New("email déjà utilisé")

// buildPatch construit le $set à partir des champs autorisés
func (h *RegistrationHandler) buildPatch(ctx context.Context, id primitive.ObjectID, req *models.RegistrationUpdateRequest) (bson.M, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	fields := bson.M{}
	setString(fields, "fullName", req.FullName)
	setString(fields, "contactNumber", req.ContactNumber)
	setString(fields, "businessName", req.BusinessName)
	setString(fields, "designation", req.Designation)
	setList(fields, "sectors", req.Sectors)
	setString(fields, "experience", req.Experience)
	setString(fields, "achievements", req.Achievements)
	setString(fields, "futurePlan", req.FuturePlan)
	setValue(fields, "ticketType", req.TicketType)
	setValue(fields, "paymentStatus", req.PaymentStatus)

	if err := requireNonEmpty(fields, "fullName", "contactNumber"); err != nil {
		return nil, err
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

func (h *RegistrationHandler) respondPatchError(w http.ResponseWriter, r *http.Request, err error) {
	var verr utils.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, errEmailConflict):
		utils.RespondError(w, http.StatusConflict, constants.ErrEmailTaken)
	default:
		respondServerError(w, r, "Erreur vérification patch", err)
	}
}

// DeleteAttendee gère DELETE /api/attendees/{id}
func (h *RegistrationHandler) DeleteAttendee(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id, ok := ParseObjectIDVar(w, r, "id")
	if !ok {
		return
	}
	h.softDelete(w, r, id)
}

func (h *RegistrationHandler) softDelete(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	deleted, err := h.store.SoftDelete(r.Context(), id)
	if err != nil {
		respondServerError(w, r, "Erreur suppression participant", err)
		return
	}
	if !deleted {
		utils.RespondError(w, http.StatusNotFound, constants.ErrRegistrationMissing)
		return
	}

	log.Info().Str("id", id.Hex()).Msg("🗑️  Participant supprimé")
	h.events.Publish(websocket.EventAttendeeDeleted, map[string]string{"id": id.Hex()})
	utils.RespondSuccess(w, "Attendee deleted", map[string]string{"id": id.Hex()})
}
