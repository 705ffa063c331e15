package database

import (
	"github.com/rpupo63/portfolio-backend/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ContentFilter selects content documents. Zero-valued fields do not
// constrain the result; Active constrains only when non-nil.
type ContentFilter struct {
	Text   string
	Tags   []string
	Status models.Status
	Active *bool
}

// Page is a skip/limit window over a sorted result set
type Page struct {
	Skip  int64
	Limit int64
}

// BSON renders the filter as a MongoDB query document
func (f ContentFilter) BSON() bson.M {
	query := bson.M{}
	if f.Text != "" {
		query["$text"] = bson.M{"$search": f.Text}
	}
	if len(f.Tags) > 0 {
		query["tags"] = bson.M{"$in": f.Tags}
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.Active != nil {
		query["active"] = *f.Active
	}
	return query
}
