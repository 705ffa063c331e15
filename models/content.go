package models

import (
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the publication state of a content entity
type Status string

const (
	StatusDraft    Status = "draft"
	StatusLive     Status = "live"
	StatusArchived Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusLive, StatusArchived:
		return true
	}
	return false
}

// Base holds the fields shared by every content entity. It is stored inline
// in each document.
type Base struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title" validate:"required"`
	Slug        string             `json:"slug" bson:"slug" validate:"required"`
	Description string             `json:"description" bson:"description"`
	Tags        []string           `json:"tags" bson:"tags"`
	Active      bool               `json:"active" bson:"active"`
	Featured    bool               `json:"featured" bson:"featured"`
	Status      Status             `json:"status" bson:"status" validate:"oneof=draft live archived"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *Base) Content() *Base {
	return b
}

// CheckIdentity reports the first missing identifying field
func (b *Base) CheckIdentity() error {
	if b.Title == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if b.Slug == "" {
		return errs.NewMissingRequiredFieldError("slug")
	}
	return nil
}

// Document is implemented by pointers to the stored content entities.
type Document[T any] interface {
	*T
	Content() *Base
	CheckIdentity() error
	ApplyDefaults(defaultImage string)
}

// Input is the request schema of a content entity. The same input type serves
// creation (Build) and partial update (Fields).
type Input[T any] interface {
	Build() T
	Fields() bson.M
}

// BaseInput is the request counterpart of Base. Nil fields were not supplied.
type BaseInput struct {
	Title       *string   `json:"title" validate:"omitempty,min=1"`
	Slug        *string   `json:"slug" validate:"omitempty,min=1"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Active      *bool     `json:"active"`
	Featured    *bool     `json:"featured"`
	Status      *Status   `json:"status" validate:"omitempty,oneof=draft live archived"`
}

func (in BaseInput) build() Base {
	return Base{
		Title:       deref(in.Title, ""),
		Slug:        deref(in.Slug, ""),
		Description: deref(in.Description, ""),
		Tags:        deref(in.Tags, []string{}),
		Active:      deref(in.Active, true),
		Featured:    deref(in.Featured, false),
		Status:      deref(in.Status, StatusDraft),
	}
}

func (in BaseInput) fields() bson.M {
	set := bson.M{}
	setIf(set, "title", in.Title)
	setIf(set, "slug", in.Slug)
	setIf(set, "description", in.Description)
	setIf(set, "tags", in.Tags)
	setIf(set, "active", in.Active)
	setIf(set, "featured", in.Featured)
	setIf(set, "status", in.Status)
	return set
}

func deref[V any](p *V, fallback V) V {
	if p == nil {
		return fallback
	}
	return *p
}

func setIf[V any](set bson.M, key string, p *V) {
	if p != nil {
		set[key] = *p
	}
}
