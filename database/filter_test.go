package database

import (
	"testing"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestContentFilter_BSON(t *testing.T) {
	active := true

	tests := []struct {
		name     string
		filter   ContentFilter
		expected bson.M
	}{
		{
			name:     "empty",
			filter:   ContentFilter{},
			expected: bson.M{},
		},
		{
			name:   "everything",
			filter: ContentFilter{Text: "go api", Tags: []string{"go", "mongo"}, Status: models.StatusLive, Active: &active},
			expected: bson.M{
				"$text":  bson.M{"$search": "go api"},
				"tags":   bson.M{"$in": []string{"go", "mongo"}},
				"status": models.StatusLive,
				"active": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.BSON())
		})
	}
}

func TestExpectedIndexes(t *testing.T) {
	indexes := expectedIndexes()

	for _, name := range []string{ProjectsCollection, BlogsCollection, CertificationsCollection} {
		names := []string{}
		for _, model := range indexes[name] {
			names = append(names, *model.Options.Name)
		}
		assert.Contains(t, names, "slug_1", name)
		assert.Contains(t, names, "title_text_description_text", name)
		assert.True(t, *indexes[name][0].Options.Unique, name)
	}

	assert.True(t, *indexes[AdminsCollection][0].Options.Unique)
}
