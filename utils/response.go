package utils

import (
	"encoding/json"
	"net/http"

	"influencia-backend/constants"
	"influencia-backend/models"

	"github.com/rs/zerolog/log"
)

// RespondJSON envoie une réponse JSON
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	if w.Header().Get(constants.HeaderContentType) == "" {
		w.Header().Set(constants.HeaderContentType, constants.HeaderApplicationJSON)
	}

	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Les en-têtes sont déjà partis, on ne peut que journaliser
		log.Error().Err(err).Msg("❌ Erreur lors de l'encodage JSON")
	}
}

// RespondError envoie une réponse d'erreur JSON {success:false, error}
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{
		Success: false,
		Error:   message,
	})
}

// RespondSuccess envoie une réponse de succès JSON
func RespondSuccess(w http.ResponseWriter, message string, data interface{}) {
	respondSuccess(w, http.StatusOK, message, data)
}

// RespondCreated envoie l'enveloppe de succès avec un 201
func RespondCreated(w http.ResponseWriter, message string, data interface{}) {
	respondSuccess(w, http.StatusCreated, message, data)
}

func respondSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	RespondJSON(w, statusCode, models.SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
