package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemoryAdminRepo is the in-process credential store with a unique email
type MemoryAdminRepo struct {
	mu     sync.RWMutex
	admins map[primitive.ObjectID]models.Admin
	now    func() time.Time
}

func NewMemoryAdminRepo() *MemoryAdminRepo {
	return &MemoryAdminRepo{
		admins: make(map[primitive.ObjectID]models.Admin),
		now:    time.Now,
	}
}

func (r *MemoryAdminRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.admins)), nil
}

func (r *MemoryAdminRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.admins[id]
	if !ok {
		return nil, nil
	}
	return &admin, nil
}

func (r *MemoryAdminRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.byEmail(models.NormalizeEmail(email))
	if !ok {
		return nil, nil
	}
	return &admin, nil
}

func (r *MemoryAdminRepo) Insert(ctx context.Context, admin *models.Admin) error {
	admin.Email = models.NormalizeEmail(admin.Email)
	if admin.Role == "" {
		admin.Role = models.RoleAdmin
	}
	if err := models.Validate(admin); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail(admin.Email); taken {
		return duplicateEmail(admin.Email)
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	r.admins[admin.ID] = *admin
	return nil
}

// UpdateFields supports the keys the credential flow writes: email and passwordHash
func (r *MemoryAdminRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	admin, ok := r.admins[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	for key, value := range set {
		str, isString := value.(string)
		if !isString {
			return fmt.Errorf("admin field %s: unsupported value %T", key, value)
		}
		switch key {
		case "email":
			email := models.NormalizeEmail(str)
			if other, taken := r.byEmail(email); taken && other.ID != id {
				return duplicateEmail(email)
			}
			admin.Email = email
		case "passwordHash":
			admin.PasswordHash = str
		case "role":
			admin.Role = str
		default:
			return fmt.Errorf("admin field %s cannot be updated", key)
		}
	}

	admin.UpdatedAt = r.now().UTC().Truncate(time.Millisecond)
	r.admins[id] = admin
	return nil
}

// byEmail must be called with r.mu held
func (r *MemoryAdminRepo) byEmail(email string) (models.Admin, bool) {
	for _, admin := range r.admins {
		if admin.Email == email {
			return admin, true
		}
	}
	return models.Admin{}, false
}

func duplicateEmail(email string) error {
	return errors.Join(errs.ErrDuplicateKey,
		fmt.Errorf("E11000 duplicate key error collection: admins index: email_1 dup key: { email: %q }", email))
}
