package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// contentService is what the handler needs from services.ContentService
type contentService[T any, I any] interface {
	Entity() string
	List(ctx context.Context, opts services.ListOptions) (services.Page[T], error)
	Create(ctx context.Context, input I) (*T, error)
	Get(ctx context.Context, idOrSlug string) (*T, error)
	Update(ctx context.Context, id string, input I) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}

// contentHandler serves list and CRUD for one content entity. The same
// handler is mounted for projects, blogs and certifications.
type contentHandler[T any, I any] struct {
	responder Responder
	logger    zerolog.Logger
	service   contentService[T, I]
	entity    string
}

func newContentHandler[T any, I any](service contentService[T, I]) contentHandler[T, I] {
	logger := log.With().Str("handlerName", service.Entity()+"Handler").Logger()

	return contentHandler[T, I]{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
		entity:    service.Entity(),
	}
}

// routes mounts the handler. Reads are public; writes need an admin session.
func (h contentHandler[T, I]) routes(r chi.Router, session sessionMiddleware) {
	r.Get("/", h.list())
	r.Get("/{id}", h.get())

	r.Group(func(r chi.Router) {
		r.Use(session.requireAdmin)
		r.Post("/", h.create())
		r.Put("/{id}", h.update())
		r.Delete("/{id}", h.delete())
	})
}

// list returns a page of entities
// @Summary List entities
// @Description Paginated list filtered by q, tags (csv, any match), status. Anonymous callers only see active entities.
// @Param q query string false "Free-text search over title and description"
// @Param tags query string false "Comma separated tags"
// @Param status query string false "draft, live or archived"
// @Param page query int false "Page number, from 1"
// @Param limit query int false "Page size, at most 100"
// @Param active query bool false "Admin only: filter on the active flag"
// @Success 200 {object} envelope "Page of entities"
// @Router /{entity} [get]
func (h contentHandler[T, I]) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := listOptions(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page, err := h.service.List(r.Context(), opts)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", h.entity, err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, "OK", page)
	}
}

// get returns one entity by id or slug, active or not
// @Summary Get entity
// @Param id path string true "Object id or slug"
// @Success 200 {object} envelope "Entity"
// @Failure 404 {object} envelope "Not Found"
// @Router /{entity}/{id} [get]
func (h contentHandler[T, I]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.entity, err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, "OK", doc)
	}
}

// create stores a new entity
// @Summary Create entity
// @Success 201 {object} envelope "Created entity"
// @Failure 400 {object} envelope "Bad Request - invalid payload or duplicate slug"
// @Failure 401 {object} envelope "Unauthorized"
// @Router /{entity} [post]
func (h contentHandler[T, I]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input I
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		doc, err := h.service.Create(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", h.entity, err))
			return
		}

		h.responder.WriteData(w, http.StatusCreated, capitalize(h.entity)+" created", doc)
	}
}

// update sets only the fields present in the body
// @Summary Update entity
// @Param id path string true "Object id"
// @Success 200 {object} envelope "Updated entity"
// @Failure 400 {object} envelope "Bad Request"
// @Failure 401 {object} envelope "Unauthorized"
// @Failure 404 {object} envelope "Not Found"
// @Router /{entity}/{id} [put]
func (h contentHandler[T, I]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input I
		if err := decodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		doc, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", h.entity, err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, capitalize(h.entity)+" updated", doc)
	}
}

// delete removes an entity for good
// @Summary Delete entity
// @Param id path string true "Object id"
// @Success 200 {object} envelope "Deleted entity"
// @Failure 401 {object} envelope "Unauthorized"
// @Failure 404 {object} envelope "Not Found"
// @Router /{entity}/{id} [delete]
func (h contentHandler[T, I]) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", h.entity, err))
			return
		}

		h.responder.WriteData(w, http.StatusOK, capitalize(h.entity)+" deleted", doc)
	}
}

// listOptions reads the list query. Without an admin session the active
// filter is forced to true and the active parameter is ignored.
func listOptions(r *http.Request) (services.ListOptions, error) {
	query := r.URL.Query()

	opts := services.ListOptions{
		Query: strings.TrimSpace(query.Get("q")),
		Tags:  splitCSV(query.Get("tags")),
	}

	if status := models.Status(query.Get("status")); status != "" {
		if !status.Valid() {
			return opts, errs.NewInvalidFieldError("status", "must be one of [draft live archived]")
		}
		opts.Status = status
	}

	// malformed numbers fall back to the defaults
	opts.Page, _ = strconv.Atoi(query.Get("page"))
	opts.Limit, _ = strconv.Atoi(query.Get("limit"))

	if _, isAdmin := ctxGetIdentity(r.Context()); !isAdmin {
		active := true
		opts.Active = &active
	} else if raw := query.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, errs.NewInvalidFieldError("active", "must be true or false")
		}
		opts.Active = &active
	}

	return opts, nil
}

func splitCSV(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
