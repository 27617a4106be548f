package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"influencia-backend/constants"
	"influencia-backend/models"
	"influencia-backend/utils"

	"github.com/rs/zerolog/log"
)

// StatsCollector est implémenté par services.StatsService
type StatsCollector interface {
	Collect(ctx context.Context) (*models.AdminStatsResponse, error)
}

// RegistrationLister liste les inscriptions pour l'export
type RegistrationLister interface {
	FindAll(ctx context.Context, f models.RegistrationFilter) ([]models.Registration, error)
}

// VolunteerLister liste les bénévoles pour l'export
type VolunteerLister interface {
	FindAll(ctx context.Context, status string) ([]models.Volunteer, error)
}

// AdminHandler gère les statistiques et exports du tableau de bord
type AdminHandler struct {
	stats         StatsCollector
	registrations RegistrationLister
	volunteers    VolunteerLister
	now           func() time.Time
}

// NewAdminHandler crée une nouvelle instance
func NewAdminHandler(stats StatsCollector, registrations RegistrationLister, volunteers VolunteerLister) *AdminHandler {
	return &AdminHandler{
		stats:         stats,
		registrations: registrations,
		volunteers:    volunteers,
		now:           time.Now,
	}
}

// Stats gère GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.stats.Collect(r.Context())
	if err != nil {
		respondServerError(w, r, "Erreur calcul statistiques", err)
		return
	}
	utils.RespondSuccess(w, "", stats)
}

// exportFormat lit ?format=, csv par défaut
func exportFormat(r *http.Request) (string, bool) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	switch format {
	case "":
		return utils.ExportCSV, true
	case utils.ExportCSV, utils.ExportXLSX:
		return format, true
	default:
		return "", false
	}
}

// ExportRegistrations gère GET /api/registrations/export (mêmes filtres que la liste)
func (h *AdminHandler) ExportRegistrations(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	format, ok := exportFormat(r)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrUnknownFormat)
		return
	}
	filter, err := parseRegistrationFilter(r)
	if err != nil {
		respondValidation(w, err)
		return
	}

	registrations, err := h.registrations.FindAll(r.Context(), filter)
	if err != nil {
		respondServerError(w, r, "Erreur export inscriptions", err)
		return
	}

	h.writeExport(w, r, "registrations", "Registrations", format, utils.RegistrationTable(registrations))
}

// ExportVolunteers gère GET /api/volunteers/export
func (h *AdminHandler) ExportVolunteers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	format, ok := exportFormat(r)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrUnknownFormat)
		return
	}

	volunteers, err := h.volunteers.FindAll(r.Context(), strings.TrimSpace(r.URL.Query().Get("status")))
	if err != nil {
		respondServerError(w, r, "Erreur export bénévoles", err)
		return
	}

	h.writeExport(w, r, "volunteers", "Volunteers", format, utils.VolunteerTable(volunteers))
}

// writeExport génère le fichier en mémoire puis l'envoie en pièce jointe
func (h *AdminHandler) writeExport(w http.ResponseWriter, r *http.Request, prefix, sheet, format string, table utils.Table) {
	var buf bytes.Buffer
	var err error
	contentType := "text/csv; charset=utf-8"

	if format == utils.ExportXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = utils.WriteXLSX(&buf, sheet, table)
	} else {
		err = utils.WriteCSV(&buf, table)
	}
	if err != nil {
		respondServerError(w, r, "Erreur génération export", err)
		return
	}

	filename := utils.ExportFilename(prefix, format, h.now())
	w.Header().Set(constants.HeaderContentType, contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	log.Info().Str("file", filename).Int("rows", len(table.Rows)).Msg("📤 Export généré")
}
