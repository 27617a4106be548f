package database

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"influencia-backend/models"
	"influencia-backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RegistrationRepository gère les opérations sur les inscriptions
type RegistrationRepository struct {
	collection *mongo.Collection
}

// NewRegistrationRepository crée une nouvelle instance de RegistrationRepository
func NewRegistrationRepository(store *Store) *RegistrationRepository {
	return &RegistrationRepository{
		collection: store.DB.Collection(RegistrationsCollection),
	}
}

// Create insère une inscription. L'ID et le qrCode sont fixés par l'appelant
// pour que le document soit écrit en un seul aller-retour.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	now := time.Now()
	reg.CreatedAt = now
	reg.UpdatedAt = now
	if reg.Sectors == nil {
		reg.Sectors = []string{}
	}

	_, err := r.collection.InsertOne(ctx, reg)
	return wrapWriteError("erreur lors de la création de l'inscription", err)
}

// EmailExists vérifie si un email est déjà utilisé par une inscription active
func (r *RegistrationRepository) EmailExists(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
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

// FindAll retourne les inscriptions actives, les plus récentes d'abord
func (r *RegistrationRepository) FindAll(ctx context.Context, f models.RegistrationFilter) ([]models.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, longTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, registrationFilterQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des inscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	registrations := []models.Registration{}
	if err = cursor.All(ctx, &registrations); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des inscriptions: %w", err)
	}
	return registrations, nil
}

// registrationFilterQuery traduit les filtres de la liste admin en requête
func registrationFilterQuery(f models.RegistrationFilter) bson.M {
	query := notDeleted()
	if f.Attended != nil {
		query["attended"] = *f.Attended
	}
	if f.PaymentStatus != "" {
		query["paymentStatus"] = f.PaymentStatus
	}
	if f.TicketType != "" {
		query["ticketType"] = f.TicketType
	}
	if f.From != nil || f.To != nil {
		created := bson.M{}
		if f.From != nil {
			created[BSONGte] = *f.From
		}
		if f.To != nil {
			created[BSONLt] = *f.To
		}
		query["createdAt"] = created
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		query[BSONOr] = bson.A{
			bson.M{"fullName": pattern},
			bson.M{"email": pattern},
		}
	}
	return query
}

// FindByTicket recherche une inscription active par qrCode ou par ID
func (r *RegistrationRepository) FindByTicket(ctx context.Context, ticket string) (*models.Registration, error) {
	return r.findOne(ctx, ticketFilter(ticket))
}

// ticketFilter traduit un code scanné : un e-pass se cherche par qrCode,
// toute autre valeur par qrCode ou par _id
func ticketFilter(ticket string) bson.M {
	filter := notDeleted()
	if utils.IsQRCode(ticket) {
		filter["qrCode"] = ticket
		return filter
	}

	or := bson.A{bson.M{"qrCode": ticket}}
	if id, err := primitive.ObjectIDFromHex(ticket); err == nil {
		or = append(or, bson.M{"_id": id})
	}
	filter[BSONOr] = or
	return filter
}

func (r *RegistrationRepository) findOne(ctx context.Context, filter bson.M) (*models.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	var reg models.Registration
	err := r.collection.FindOne(ctx, filter).Decode(&reg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'inscription: %w", err)
	}
	return &reg, nil
}

// ToggleAttendance inverse le drapeau de présence en une seule écriture atomique :
// checkInTime est posé au passage à true et remis à null au passage à false
func (r *RegistrationRepository) ToggleAttendance(ctx context.Context, id primitive.ObjectID) (*models.Registration, error) {
	filter := notDeleted()
	filter["_id"] = id

	// Pipeline d'update : "$attended" désigne la valeur avant modification
	update := mongo.Pipeline{
		{{Key: BSONSet, Value: bson.M{
			"checkInTime": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$attended", true}}, nil, "$$NOW"}},
			"attended":    bson.M{"$ne": bson.A{"$attended", true}},
			"updatedAt":   "$$NOW",
		}}},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

// CheckIn marque la présence uniquement si le participant n'est pas déjà enregistré.
// Renvoie nil,nil si aucun document n'a été modifié (inconnu ou déjà présent).
func (r *RegistrationRepository) CheckIn(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Registration, error) {
	filter := notDeleted()
	filter["_id"] = id
	filter["attended"] = bson.M{BSONNe: true}

	update := bson.M{BSONSet: bson.M{
		"attended":    true,
		"checkInTime": at,
		"updatedAt":   at,
	}}

	return r.findOneAndUpdate(ctx, filter, update)
}

// UpdateFields applique un $set sur une inscription active et renvoie le document à jour
func (r *RegistrationRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Registration, error) {
	filter := notDeleted()
	filter["_id"] = id

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	return r.findOneAndUpdate(ctx, filter, bson.M{BSONSet: set})
}

func (r *RegistrationRepository) findOneAndUpdate(ctx context.Context, filter bson.M, update interface{}) (*models.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var reg models.Registration
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&reg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, wrapWriteError("erreur lors de la mise à jour de l'inscription", err)
	}
	return &reg, nil
}

// SoftDelete marque une inscription comme supprimée. Renvoie false si elle n'existe pas.
func (r *RegistrationRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return softDelete(ctx, r.collection, id)
}

// Stats compte les inscriptions actives pour le tableau de bord
func (r *RegistrationRepository) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	ctx, cancel := context.WithTimeout(ctx, longTimeout)
	defer cancel()

	count := func(extra bson.M) (int64, error) {
		filter := notDeleted()
		for k, v := range extra {
			filter[k] = v
		}
		return r.collection.CountDocuments(ctx, filter)
	}

	stats := &models.RegistrationStats{ByTicketType: map[string]int64{}}
	var err error

	if stats.Total, err = count(nil); err != nil {
		return nil, fmt.Errorf("erreur comptage inscriptions: %w", err)
	}
	if stats.Attended, err = count(bson.M{"attended": true}); err != nil {
		return nil, fmt.Errorf("erreur comptage présents: %w", err)
	}
	if stats.Confirmed, err = count(bson.M{"paymentStatus": models.PaymentConfirmed}); err != nil {
		return nil, fmt.Errorf("erreur comptage paiements: %w", err)
	}
	for _, tt := range []string{models.TicketStandard, models.TicketPremium, models.TicketVIP} {
		stats.ByTicketType[tt] = 0
	}

	pipeline := mongo.Pipeline{
		{{Key: BSONMatch, Value: notDeleted()}},
		{{Key: BSONGroup, Value: bson.M{"_id": "$ticketType", "count": bson.M{BSONSum: 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("erreur comptage par type de billet: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []struct {
		TicketType string `bson:"_id"`
		Count      int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("erreur décodage par type de billet: %w", err)
	}
	for _, g := range groups {
		stats.ByTicketType[g.TicketType] = g.Count
	}

	return stats, nil
}

// softDelete est partagé par toutes les collections à suppression logique
func softDelete(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	filter := notDeleted()
	filter["_id"] = id

	result, err := collection.UpdateOne(ctx, filter, bson.M{BSONSet: bson.M{
		"deleted":   true,
		"updatedAt": time.Now(),
	}})
	if err != nil {
		return false, fmt.Errorf("erreur lors de la suppression (%s): %w", collection.Name(), err)
	}
	return result.MatchedCount > 0, nil
}
