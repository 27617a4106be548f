package database

import (
	"context"
	"fmt"
	"time"

	"influencia-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VolunteerRepository gère les opérations sur les candidatures de bénévoles
type VolunteerRepository struct {
	collection *mongo.Collection
}

// NewVolunteerRepository crée une nouvelle instance de VolunteerRepository
func NewVolunteerRepository(store *Store) *VolunteerRepository {
	return &VolunteerRepository{
		collection: store.DB.Collection(VolunteersCollection),
	}
}

// Create insère une candidature
func (r *VolunteerRepository) Create(ctx context.Context, v *models.Volunteer) error {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.PreferredAreas == nil {
		v.PreferredAreas = []string{}
	}

	_, err := r.collection.InsertOne(ctx, v)
	return wrapWriteError("erreur lors de la création du bénévole", err)
}

// EmailExists vérifie si un email est déjà utilisé par un bénévole actif
func (r *VolunteerRepository) EmailExists(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	filter := notDeleted()
	filter["email"] = email
	if !exclude.IsZero() {
		filter["_id"] = bson.M{BSONNe: exclude}
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("erreur lors de la vérification de l'email: %w", err)
	}
	return count > 0, nil
}

// FindAll retourne les bénévoles actifs, filtrés par statut si fourni
func (r *VolunteerRepository) FindAll(ctx context.Context, status string) ([]models.Volunteer, error) {
	ctx, cancel := context.WithTimeout(ctx, longTimeout)
	defer cancel()

	filter := notDeleted()
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des bénévoles: %w", err)
	}
	defer cursor.Close(ctx)

	volunteers := []models.Volunteer{}
	if err = cursor.All(ctx, &volunteers); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des bénévoles: %w", err)
	}
	return volunteers, nil
}

// UpdateFields applique un $set et renvoie le document à jour (nil si absent)
func (r *VolunteerRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Volunteer, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	filter := notDeleted()
	filter["_id"] = id

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var v models.Volunteer
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{BSONSet: set}, opts).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, wrapWriteError("erreur lors de la mise à jour du bénévole", err)
	}
	return &v, nil
}

// SoftDelete marque un bénévole comme supprimé
func (r *VolunteerRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return softDelete(ctx, r.collection, id)
}

// Count compte les bénévoles actifs
func (r *VolunteerRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, notDeleted())
	if err != nil {
		return 0, fmt.Errorf("erreur comptage bénévoles: %w", err)
	}
	return count, nil
}
