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

// CourseRepository gère le catalogue de formations
type CourseRepository struct {
	collection *mongo.Collection
}

// NewCourseRepository crée une nouvelle instance de CourseRepository
func NewCourseRepository(store *Store) *CourseRepository {
	return &CourseRepository{
		collection: store.DB.Collection(CoursesCollection),
	}
}

// Create insère une formation. Un slug déjà pris renvoie ErrDuplicate.
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	c.ID = primitive.NewObjectID()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, c)
	return wrapWriteError("erreur lors de la création de la formation", err)
}

// SlugExists vérifie si un slug est pris, y compris par une formation supprimée
// (l'index unique les couvre aussi)
func (r *CourseRepository) SlugExists(ctx context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	filter := bson.M{"slug": slug}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{BSONNe: exclude}
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("erreur lors de la vérification du slug: %w", err)
	}
	return count > 0, nil
}

func courseFilter(publishedOnly bool) bson.M {
	filter := notDeleted()
	if publishedOnly {
		filter["status"] = models.CoursePublished
	}
	return filter
}

// FindAll retourne les formations actives, uniquement publiées si demandé
func (r *CourseRepository) FindAll(ctx context.Context, publishedOnly bool) ([]models.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, longTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, courseFilter(publishedOnly), opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des formations: %w", err)
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err = cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des formations: %w", err)
	}
	return courses, nil
}

// FindByIDOrSlug recherche une formation par ID hexadécimal ou par slug
func (r *CourseRepository) FindByIDOrSlug(ctx context.Context, idOrSlug string, publishedOnly bool) (*models.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	or := bson.A{bson.M{"slug": idOrSlug}}
	if id, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
		or = append(or, bson.M{"_id": id})
	}
	filter := courseFilter(publishedOnly)
	filter[BSONOr] = or

	var c models.Course
	err := r.collection.FindOne(ctx, filter).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de la formation: %w", err)
	}
	return &c, nil
}

// UpdateFields applique un $set et renvoie la formation à jour (nil si absente)
func (r *CourseRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	filter := notDeleted()
	filter["_id"] = id

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Course
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{BSONSet: set}, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, wrapWriteError("erreur lors de la mise à jour de la formation", err)
	}
	return &c, nil
}

// SoftDelete marque une formation comme supprimée
func (r *CourseRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return softDelete(ctx, r.collection, id)
}

// CountPublished compte les formations publiées
func (r *CourseRepository) CountPublished(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, shortTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, courseFilter(true))
	if err != nil {
		return 0, fmt.Errorf("erreur comptage formations: %w", err)
	}
	return count, nil
}
