package database

import (
	"context"
	"errors"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminRepository is the credential store
type AdminRepository interface {
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Insert(ctx context.Context, admin *models.Admin) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error
}

type AdminRepo struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewAdminRepo(collection *mongo.Collection) *AdminRepo {
	return &AdminRepo{collection: collection, now: time.Now}
}

// Collection returns the underlying collection for index management
func (r *AdminRepo) Collection() *mongo.Collection {
	return r.collection
}

func (r *AdminRepo) Count(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	return total, translateError(err)
}

func (r *AdminRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

// Insert adds a new admin into the database
func (r *AdminRepo) Insert(ctx context.Context, admin *models.Admin) error {
	admin.Email = models.NormalizeEmail(admin.Email)
	if admin.Role == "" {
		admin.Role = models.RoleAdmin
	}
	if err := models.Validate(admin); err != nil {
		return err
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, admin)
	return translateError(err)
}

// UpdateFields applies $set to one admin; a missing admin is ErrNoDocuments
func (r *AdminRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	update := bson.M{"updatedAt": r.now().UTC().Truncate(time.Millisecond)}
	for key, value := range set {
		update[key] = value
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *AdminRepo) findOne(ctx context.Context, filter bson.M) (*models.Admin, error) {
	var admin models.Admin
	err := r.collection.FindOne(ctx, filter).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &admin, nil
}
