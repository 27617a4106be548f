package database

import (
	"context"
	"fmt"
	"time"

	"influencia-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AlertRepository gère les opérations sur les alertes critiques
type AlertRepository struct {
	collection *mongo.Collection
}

// NewAlertRepository crée une nouvelle instance
func NewAlertRepository(store *Store) *AlertRepository {
	return &AlertRepository{
		collection: store.DB.Collection(AlertsCollection),
	}
}

// Create crée une nouvelle alerte
func (r *AlertRepository) Create(ctx context.Context, alert *models.CriticalAlert) error {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	alert.ID = primitive.NewObjectID()
	alert.CreatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, alert); err != nil {
		return fmt.Errorf("erreur lors de la création de l'alerte: %w", err)
	}
	return nil
}

// CountRecent compte les alertes envoyées depuis une IP sur la période (rate limiting)
func (r *AlertRepository) CountRecent(ctx context.Context, clientIP string, since time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"clientIp":  clientIP,
		"createdAt": bson.M{BSONGte: time.Now().Add(-since)},
	})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des alertes: %w", err)
	}
	return count, nil
}
