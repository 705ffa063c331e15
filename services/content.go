package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListOptions are the list query parameters. Active filters only when
// non-nil; a nil Active is how the admin view sees hidden entries.
type ListOptions struct {
	Query  string
	Tags   []string
	Status models.Status
	Active *bool
	Page   int
	Limit  int
}

// normalize clamps page to >= 1 and limit to [1, MaxLimit]
func (o ListOptions) normalize() (page, limit int) {
	page, limit = o.Page, o.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Page is one page of list results. Total counts every match of the
// filter regardless of paging.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// ContentService implements list and CRUD for one content entity type
type ContentService[T any, P models.Document[T], I models.Input[T]] struct {
	entity       string
	repo         database.ContentRepository[T]
	defaultImage string
	logger       zerolog.Logger
}

func NewContentService[T any, P models.Document[T], I models.Input[T]](entity string, repo database.ContentRepository[T], defaultImage string) *ContentService[T, P, I] {
	return &ContentService[T, P, I]{
		entity:       entity,
		repo:         repo,
		defaultImage: defaultImage,
		logger:       log.With().Str("service", entity).Logger(),
	}
}

// Entity is the singular entity name used in messages
func (s *ContentService[T, P, I]) Entity() string {
	return s.entity
}

// List runs the page query and the count query concurrently
func (s *ContentService[T, P, I]) List(ctx context.Context, opts ListOptions) (Page[T], error) {
	page, limit := opts.normalize()
	filter := database.ContentFilter{
		Text:   opts.Query,
		Tags:   opts.Tags,
		Status: opts.Status,
		Active: opts.Active,
	}

	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.Find(gctx, filter, database.Page{
			Skip:  int64(page-1) * int64(limit),
			Limit: int64(limit),
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page[T]{}, err
	}

	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Create builds the entity from input with schema defaults, checks the
// identifying fields, back-fills the default image and inserts it
func (s *ContentService[T, P, I]) Create(ctx context.Context, input I) (*T, error) {
	if err := models.Validate(input); err != nil {
		return nil, err
	}

	doc := input.Build()
	if err := P(&doc).CheckIdentity(); err != nil {
		return nil, err
	}
	P(&doc).ApplyDefaults(s.defaultImage)

	if err := s.repo.Insert(ctx, &doc); err != nil {
		return nil, err
	}

	s.logger.Info().Str("slug", P(&doc).Content().Slug).Msgf("%s created", s.entity)
	return &doc, nil
}

// Get looks the entity up by id, then by slug. The active flag is not
// enforced here: hidden entries stay reachable by direct link.
func (s *ContentService[T, P, I]) Get(ctx context.Context, idOrSlug string) (*T, error) {
	if id, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
		doc, err := s.repo.FindByID(ctx, id)
		if err != nil || doc != nil {
			return doc, err
		}
	}

	doc, err := s.repo.FindBySlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, s.notFound()
	}
	return doc, nil
}

// Update overwrites only the supplied fields. Defaults are not back-filled.
func (s *ContentService[T, P, I]) Update(ctx context.Context, idHex string, input I) (*T, error) {
	id, err := s.parseID(idHex)
	if err != nil {
		return nil, err
	}
	if err := models.Validate(input); err != nil {
		return nil, err
	}

	set := input.Fields()
	if len(set) == 0 {
		doc, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, s.notFound()
		}
		return doc, nil
	}

	doc, err := s.repo.UpdateFields(ctx, id, set)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, s.notFound()
	}
	return doc, nil
}

// Delete removes the entity and returns what was stored
func (s *ContentService[T, P, I]) Delete(ctx context.Context, idHex string) (*T, error) {
	id, err := s.parseID(idHex)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, s.notFound()
	}

	s.logger.Info().Str("id", idHex).Msgf("%s deleted", s.entity)
	return doc, nil
}

func (s *ContentService[T, P, I]) parseID(idHex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return primitive.NilObjectID, errs.NewInvalidFieldError("id", "not a valid object id")
	}
	return id, nil
}

func (s *ContentService[T, P, I]) notFound() error {
	return errs.NewNotFoundError(fmt.Sprintf("%s not found", capitalize(s.entity)))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
