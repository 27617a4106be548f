package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"influencia-backend/constants"
	"influencia-backend/models"
	"influencia-backend/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxBodyBytes limite la taille des corps JSON acceptés
const maxBodyBytes = 1 << 20

// EventPublisher diffuse un événement au tableau de bord en direct
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// RequireMethod vérifie que la méthode HTTP est correcte. Retourne false et écrit l'erreur si non.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return false
	}
	return true
}

// ParseObjectIDVar extrait et valide un ObjectID depuis les vars de l'URL.
func ParseObjectIDVar(w http.ResponseWriter, r *http.Request, key string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[key])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidID)
		return primitive.NilObjectID, false
	}
	return id, true
}

// decodeJSON décode le corps de la requête. Retourne false et écrit un 400 si invalide.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return false
	}
	return true
}

// respondValidation écrit le message d'une ValidationError en 400
func respondValidation(w http.ResponseWriter, err error) {
	var verr utils.ValidationError
	if errors.As(err, &verr) {
		utils.RespondError(w, http.StatusBadRequest, verr.Message)
		return
	}
	utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
}

// respondServerError journalise l'erreur et renvoie un 500 générique
func respondServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("❌ " + msg)
	utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
}

// setString ajoute un champ texte au patch s'il est fourni
func setString(patch bson.M, key string, v *string) {
	if v != nil {
		patch[key] = strings.TrimSpace(*v)
	}
}

// setList ajoute une liste nettoyée au patch si elle est fournie
func setList(patch bson.M, key string, v *[]string) {
	if v != nil {
		patch[key] = models.CleanList(*v)
	}
}

// setValue ajoute une valeur au patch si elle est fournie
func setValue[T any](patch bson.M, key string, v *T) {
	if v != nil {
		patch[key] = *v
	}
}

// requireNonEmpty refuse qu'un patch vide un champ obligatoire
func requireNonEmpty(patch bson.M, keys ...string) error {
	for _, key := range keys {
		if v, ok := patch[key].(string); ok && v == "" {
			return utils.ValidationError{Field: key, Message: key + " is required"}
		}
	}
	return nil
}

// clientIP renvoie l'adresse du client, en tenant compte d'un proxy
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
