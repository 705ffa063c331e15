package database

import (
	"context"
	"errors"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentRepository is the storage contract shared by projects, blogs and
// certifications. Lookups that match nothing return (nil, nil).
type ContentRepository[T any] interface {
	Find(ctx context.Context, filter ContentFilter, page Page) ([]T, error)
	Count(ctx context.Context, filter ContentFilter) (int64, error)
	Insert(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindBySlug(ctx context.Context, slug string) (*T, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*T, error)
}

// newestFirst is the list order of every content collection
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// ContentRepo stores one content entity type in a MongoDB collection
type ContentRepo[T any, P models.Document[T]] struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewContentRepo[T any, P models.Document[T]](collection *mongo.Collection) *ContentRepo[T, P] {
	return &ContentRepo[T, P]{collection: collection, now: time.Now}
}

// Collection returns the underlying collection for index management
func (r *ContentRepo[T, P]) Collection() *mongo.Collection {
	return r.collection
}

// Find returns one page of documents matching filter, newest first
func (r *ContentRepo[T, P]) Find(ctx context.Context, filter ContentFilter, page Page) ([]T, error) {
	opts := options.Find().SetSort(newestFirst).SetSkip(page.Skip)
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}

	cursor, err := r.collection.Find(ctx, filter.BSON(), opts)
	if err != nil {
		return nil, translateError(err)
	}

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateError(err)
	}
	return docs, nil
}

// Count returns the number of documents matching filter
func (r *ContentRepo[T, P]) Count(ctx context.Context, filter ContentFilter) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter.BSON())
	return total, translateError(err)
}

// Insert validates doc against its schema, stamps it and inserts it
func (r *ContentRepo[T, P]) Insert(ctx context.Context, doc *T) error {
	if err := models.Validate(doc); err != nil {
		return err
	}

	base := P(doc).Content()
	now := r.now().UTC().Truncate(time.Millisecond)
	base.ID = primitive.NewObjectID()
	base.CreatedAt = now
	base.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, doc)
	return translateError(err)
}

// FindByID returns a document by its ID
func (r *ContentRepo[T, P]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindBySlug returns a document by its slug
func (r *ContentRepo[T, P]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// UpdateFields applies $set with only the supplied keys and returns the
// updated document
func (r *ContentRepo[T, P]) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	update := bson.M{}
	for key, value := range set {
		update[key] = value
	}
	update["updatedAt"] = r.now().UTC().Truncate(time.Millisecond)

	var doc T
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &doc, nil
}

// Delete removes a document by id and returns it
func (r *ContentRepo[T, P]) Delete(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &doc, nil
}

func (r *ContentRepo[T, P]) findOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &doc, nil
}

// translateError tags unique-index violations (server code 11000) with
// errs.ErrDuplicateKey so callers need not know about the driver.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(errs.ErrDuplicateKey, err)
	}
	return err
}
