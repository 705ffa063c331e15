package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryContentRepo keeps documents BSON-encoded in process memory. It
// honours the same contract as ContentRepo: unique slugs, $set updates and
// newest-first ordering. Text search matches any query term as a
// case-insensitive substring of title or description.
type MemoryContentRepo[T any, P models.Document[T]] struct {
	name string
	mu   sync.RWMutex
	docs map[primitive.ObjectID][]byte
	now  func() time.Time
}

func NewMemoryContentRepo[T any, P models.Document[T]](name string) *MemoryContentRepo[T, P] {
	return &MemoryContentRepo[T, P]{
		name: name,
		docs: make(map[primitive.ObjectID][]byte),
		now:  time.Now,
	}
}

func (r *MemoryContentRepo[T, P]) Find(ctx context.Context, filter ContentFilter, page Page) ([]T, error) {
	r.mu.RLock()
	matched, err := r.matching(filter)
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := P(&matched[i]).Content(), P(&matched[j]).Content()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) > 0
	})

	start := min(page.Skip, int64(len(matched)))
	end := int64(len(matched))
	if page.Limit > 0 {
		end = min(start+page.Limit, end)
	}
	return matched[start:end], nil
}

func (r *MemoryContentRepo[T, P]) Count(ctx context.Context, filter ContentFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched, err := r.matching(filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (r *MemoryContentRepo[T, P]) Insert(ctx context.Context, doc *T) error {
	if err := models.Validate(doc); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	base := P(doc).Content()
	if owner, taken := r.slugOwner(base.Slug); taken {
		return r.duplicate(base.Slug, owner)
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	base.ID = primitive.NewObjectID()
	base.CreatedAt = now
	base.UpdatedAt = now

	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	r.docs[base.ID] = raw
	return nil
}

func (r *MemoryContentRepo[T, P]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raw, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return r.decode(raw)
}

func (r *MemoryContentRepo[T, P]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.slugOwner(slug)
	if !ok {
		return nil, nil
	}
	return r.decode(r.docs[id])
}

func (r *MemoryContentRepo[T, P]) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok := r.docs[id]
	if !ok {
		return nil, nil
	}

	if slug, ok := set["slug"].(string); ok {
		if owner, taken := r.slugOwner(slug); taken && owner != id {
			return nil, r.duplicate(slug, owner)
		}
	}

	var stored bson.M
	if err := bson.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	for key, value := range set {
		stored[key] = value
	}
	stored["updatedAt"] = r.now().UTC().Truncate(time.Millisecond)

	updated, err := bson.Marshal(stored)
	if err != nil {
		return nil, err
	}
	doc, err := r.decode(updated)
	if err != nil {
		return nil, err
	}
	r.docs[id] = updated
	return doc, nil
}

func (r *MemoryContentRepo[T, P]) Delete(ctx context.Context, id primitive.ObjectID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	delete(r.docs, id)
	return r.decode(raw)
}

// matching must be called with r.mu held
func (r *MemoryContentRepo[T, P]) matching(filter ContentFilter) ([]T, error) {
	terms := strings.Fields(strings.ToLower(filter.Text))

	matched := []T{}
	for _, raw := range r.docs {
		doc, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		if matchesContent(P(doc).Content(), filter, terms) {
			matched = append(matched, *doc)
		}
	}
	return matched, nil
}

func matchesContent(base *models.Base, filter ContentFilter, terms []string) bool {
	if len(terms) > 0 {
		haystack := strings.ToLower(base.Title + " " + base.Description)
		found := false
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(filter.Tags) > 0 && !anyTag(base.Tags, filter.Tags) {
		return false
	}
	if filter.Status != "" && base.Status != filter.Status {
		return false
	}
	if filter.Active != nil && base.Active != *filter.Active {
		return false
	}
	return true
}

func anyTag(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

// slugOwner must be called with r.mu held
func (r *MemoryContentRepo[T, P]) slugOwner(slug string) (primitive.ObjectID, bool) {
	for id, raw := range r.docs {
		value, err := bson.Raw(raw).LookupErr("slug")
		if err != nil {
			continue
		}
		if stored, ok := value.StringValueOK(); ok && stored == slug {
			return id, true
		}
	}
	return primitive.NilObjectID, false
}

func (r *MemoryContentRepo[T, P]) duplicate(slug string, owner primitive.ObjectID) error {
	return errors.Join(errs.ErrDuplicateKey,
		fmt.Errorf("E11000 duplicate key error collection: %s index: slug_1 dup key: { slug: %q } (held by %s)", r.name, slug, owner.Hex()))
}

func (r *MemoryContentRepo[T, P]) decode(raw []byte) (*T, error) {
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
