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

// ContactRepository gère les messages du formulaire de contact
type ContactRepository struct {
	collection *mongo.Collection
}

// NewContactRepository crée une nouvelle instance
func NewContactRepository(store *Store) *ContactRepository {
	return &ContactRepository{
		collection: store.DB.Collection(ContactsCollection),
	}
}

// Create insère un message
func (r *ContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	msg.ID = primitive.NewObjectID()
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("erreur lors de l'enregistrement du message: %w", err)
	}
	return nil
}

// FindAll retourne les messages actifs, les plus récents d'abord
func (r *ContactRepository) FindAll(ctx context.Context) ([]models.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, longTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, notDeleted(), opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []models.ContactMessage{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des messages: %w", err)
	}
	return messages, nil
}

// UpdateFields applique un $set et renvoie le message à jour (nil si absent)
func (r *ContactRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.ContactMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	filter := notDeleted()
	filter["_id"] = id

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var msg models.ContactMessage
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{BSONSet: set}, opts).Decode(&msg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la mise à jour du message: %w", err)
	}
	return &msg, nil
}

// SoftDelete marque un message comme supprimé
func (r *ContactRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return softDelete(ctx, r.collection, id)
}

// Count compte les messages actifs
func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, notDeleted())
	if err != nil {
		return 0, fmt.Errorf("erreur comptage messages: %w", err)
	}
	return count, nil
}
