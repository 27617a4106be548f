package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"influencia-backend/constants"
	"influencia-backend/database"
	"influencia-backend/models"
	"influencia-backend/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxSlugAttempts borne la recherche d'un suffixe libre (-2, -3, ...)
const maxSlugAttempts = 100

// errSlugExhausted est renvoyée quand aucun suffixe n'est libre
var errSlugExhausted = errors.New("aucun slug disponible")

// CourseStore est implémenté par database.CourseRepository
type CourseStore interface {
	Create(ctx context.Context, c *models.Course) error
	SlugExists(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error)
	FindAll(ctx context.Context, publishedOnly bool) ([]models.Course, error)
	FindByIDOrSlug(ctx context.Context, idOrSlug string, publishedOnly bool) (*models.Course, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Course, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// CourseHandler gère le catalogue de formations
type CourseHandler struct {
	store CourseStore
}

// NewCourseHandler crée une nouvelle instance
func NewCourseHandler(store CourseStore) *CourseHandler {
	return &CourseHandler{store: store}
}

// uniqueSlug dérive un slug du titre et ajoute -2, -3... en cas de collision
func (h *CourseHandler) uniqueSlug(ctx context.Context, title string, exclude primitive.ObjectID) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = "course"
	}

	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := utils.SlugCandidate(base, n)
		exists, err := h.store.SlugExists(ctx, candidate, exclude)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", errSlugExhausted
}

func (h *CourseHandler) respondSlugError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errSlugExhausted) || errors.Is(err, database.ErrDuplicate) {
		utils.RespondError(w, http.StatusConflict, constants.ErrSlugExhausted)
		return
	}
	respondServerError(w, r, "Erreur génération slug", err)
}

// ListPublished gère GET /api/courses
func (h *CourseHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAll gère GET /api/admin/courses (tous statuts)
func (h *CourseHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *CourseHandler) list(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	courses, err := h.store.FindAll(r.Context(), publishedOnly)
	if err != nil {
		respondServerError(w, r, "Erreur récupération formations", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, courses)
}

// Get gère GET /api/courses/{idOrSlug} (formations publiées uniquement)
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	key := strings.TrimSpace(mux.Vars(r)["idOrSlug"])
	course, err := h.store.FindByIDOrSlug(r.Context(), key, true)
	if err != nil {
		respondServerError(w, r, "Erreur recherche formation", err)
		return
	}
	if course == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrCourseNotFound)
		return
	}
	utils.RespondJSON(w, http.StatusOK, course)
}

// Create gère POST /api/courses
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))

	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err)
		return
	}

	slug, err := h.uniqueSlug(r.Context(), req.Title, primitive.NilObjectID)
	if err != nil {
		h.respondSlugError(w, r, err)
		return
	}

	course := &models.Course{
		Title:            req.Title,
		Slug:             slug,
		ShortDescription: strings.TrimSpace(req.ShortDescription),
		Description:      strings.TrimSpace(req.Description),
		Category:         strings.TrimSpace(req.Category),
		Level:            strings.TrimSpace(req.Level),
		Duration:         strings.TrimSpace(req.Duration),
		Price:            req.Price,
		Image:            strings.TrimSpace(req.Image),
		Features:         nonNil(req.Features),
		Modules:          nonNil(req.Modules),
		Mentors:          nonNil(req.Mentors),
		Status:           req.Status,
	}
	if course.Status == "" {
		course.Status = models.CourseDraft
	}

	if err := h.store.Create(r.Context(), course); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			h.respondSlugError(w, r, err)
			return
		}
		respondServerError(w, r, "Erreur création formation", err)
		return
	}

	log.Info().Str("slug", course.Slug).Str("status", course.Status).Msg("✅ Formation créée")
	utils.RespondCreated(w, "Course created", course)
}

// Update gère PUT /api/courses/{id}. Un nouveau titre régénère le slug.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	id, ok := ParseObjectIDVar(w, r, "id")
	if !ok {
		return
	}

	var req models.CourseUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		req.Status = &status
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondValidation(w, err)
		return
	}

	fields := bson.M{}
	setString(fields, "shortDescription", req.ShortDescription)
	setString(fields, "description", req.Description)
	setString(fields, "category", req.Category)
	setString(fields, "level", req.Level)
	setString(fields, "duration", req.Duration)
	setValue(fields, "price", req.Price)
	setString(fields, "image", req.Image)
	setValue(fields, "features", req.Features)
	setValue(fields, "modules", req.Modules)
	setValue(fields, "mentors", req.Mentors)
	setValue(fields, "status", req.Status)

	if err := requireNonEmpty(fields, "status"); err != nil {
		respondValidation(w, err)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			utils.RespondError(w, http.StatusBadRequest, "title is required")
			return
		}
		slug, err := h.uniqueSlug(r.Context(), title, id)
		if err != nil {
			h.respondSlugError(w, r, err)
			return
		}
		fields["title"] = title
		fields["slug"] = slug
	}

	if len(fields) == 0 {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrNothingToUpdate)
		return
	}

	course, err := h.store.UpdateFields(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			h.respondSlugError(w, r, err)
			return
		}
		respondServerError(w, r, "Erreur mise à jour formation", err)
		return
	}
	if course == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrCourseNotFound)
		return
	}

	utils.RespondSuccess(w, "Course updated", course)
}

// Delete gère DELETE /api/courses/{id}
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id, ok := ParseObjectIDVar(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.store.SoftDelete(r.Context(), id)
	if err != nil {
		respondServerError(w, r, "Erreur suppression formation", err)
		return
	}
	if !deleted {
		utils.RespondError(w, http.StatusNotFound, constants.ErrCourseNotFound)
		return
	}

	utils.RespondSuccess(w, "Course deleted", map[string]string{"id": id.Hex()})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
