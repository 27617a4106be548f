package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Noms des collections
const (
	RegistrationsCollection = "registrations"
	VolunteersCollection    = "volunteers"
	CoursesCollection       = "courses"
	ContactsCollection      = "contacts"
	AlertsCollection        = "admin_alerts"
)

// Durées maximales des opérations
const (
	shortTimeout = 5 * time.Second
	longTimeout  = 10 * time.Second
)

// ErrDuplicate est renvoyée quand un index unique refuse une écriture
var ErrDuplicate = errors.New("document en double")

// Store possède le client MongoDB du processus. Il est créé une seule fois
// dans main puis injecté dans les repositories.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect établit la connexion à la base de données MongoDB
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, longTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la connexion à MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("erreur lors du ping MongoDB: %w", err)
	}

	store := &Store{Client: client, DB: client.Database(dbName)}
	log.Info().Str("db", dbName).Msg("✓ Connexion à MongoDB établie")

	if err = store.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("erreur lors de la création des index: %w", err)
	}

	return store, nil
}

// Ping vérifie que la connexion MongoDB est active
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return fmt.Errorf("client MongoDB non initialisé")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

// Close ferme la connexion à la base de données
func (s *Store) Close() error {
	if s == nil || s.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	return s.Client.Disconnect(ctx)
}

// createIndexes crée les index uniques dont dépendent les règles métier
func (s *Store) createIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		RegistrationsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: uniqueAmongActive()},
			{Keys: bson.D{{Key: "qrCode", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "deleted", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		VolunteersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: uniqueAmongActive()},
		},
		CoursesCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, models := range indexes {
		if _, err := s.DB.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("collection %s: %w", name, err)
		}
	}

	log.Info().Msg("✓ Index MongoDB créés")
	return nil
}

// uniqueAmongActive limite l'unicité aux documents non supprimés, pour qu'une
// personne supprimée puisse se réinscrire
func uniqueAmongActive() *options.IndexOptions {
	return options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"deleted": false})
}

// wrapWriteError traduit les erreurs d'index unique en ErrDuplicate
func wrapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// notDeleted est le filtre commun des listes (suppression logique)
func notDeleted() bson.M {
	return bson.M{"deleted": bson.M{BSONNe: true}}
}
