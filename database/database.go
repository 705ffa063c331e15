package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rpupo63/portfolio-backend/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ProjectsCollection       = "projects"
	BlogsCollection          = "blogs"
	CertificationsCollection = "certifications"
	AdminsCollection         = "admins"
)

type Database struct {
	projectRepo       ContentRepository[models.Project]
	blogRepo          ContentRepository[models.Blog]
	certificationRepo ContentRepository[models.Certification]
	adminRepo         AdminRepository
	mongoDB           *mongo.Database
}

// New initializes a new Database struct with each repository backed by a
// collection of the given MongoDB database
func New(db *mongo.Database) Database {
	return Database{
		projectRepo:       NewContentRepo[models.Project](db.Collection(ProjectsCollection)),
		blogRepo:          NewContentRepo[models.Blog](db.Collection(BlogsCollection)),
		certificationRepo: NewContentRepo[models.Certification](db.Collection(CertificationsCollection)),
		adminRepo:         NewAdminRepo(db.Collection(AdminsCollection)),
		mongoDB:           db,
	}
}

// NewMemory initializes a Database whose repositories live in process memory
func NewMemory() Database {
	return Database{
		projectRepo:       NewMemoryContentRepo[models.Project](ProjectsCollection),
		blogRepo:          NewMemoryContentRepo[models.Blog](BlogsCollection),
		certificationRepo: NewMemoryContentRepo[models.Certification](CertificationsCollection),
		adminRepo:         NewMemoryAdminRepo(),
	}
}

// Connect dials MongoDB and verifies the connection. The returned client
// pools connections and is shared by every request for the process lifetime.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo connection string is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}

// Accessor methods for each repository

func (d Database) ProjectRepo() ContentRepository[models.Project] {
	return d.projectRepo
}

func (d Database) BlogRepo() ContentRepository[models.Blog] {
	return d.blogRepo
}

func (d Database) CertificationRepo() ContentRepository[models.Certification] {
	return d.certificationRepo
}

func (d Database) AdminRepo() AdminRepository {
	return d.adminRepo
}

// IsMemory reports whether the repositories are in-process
func (d Database) IsMemory() bool {
	return d.mongoDB == nil
}
