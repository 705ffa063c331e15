package database

import (
	"context"
	"fmt"
	"io"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
Index Report Usage:

EnsureIndexes runs on every startup against MongoDB. To print which of the
expected indexes are present in a database without starting the server:

1. Set the environment variable: GENERATE_INDEX_REPORT=true
2. Run the application: go run .

Example output:
=== INDEX REPORT ===
--- Collection: projects ---
  [ok]      slug_1
  [missing] title_text_description_text

=== SUMMARY ===
Total missing indexes across all collections: 1
*/

// expectedIndexes lists the indexes each collection relies on
func expectedIndexes() map[string][]mongo.IndexModel {
	content := func() []mongo.IndexModel {
		return []mongo.IndexModel{
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetName("slug_1").SetUnique(true)},
			{
				Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
				Options: options.Index().SetName("title_text_description_text"),
			},
			{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("tags_1")},
			{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("status_1")},
			{Keys: bson.D{{Key: "active", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("active_1_createdAt_-1")},
		}
	}

	return map[string][]mongo.IndexModel{
		ProjectsCollection:       content(),
		BlogsCollection:          content(),
		CertificationsCollection: content(),
		AdminsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("email_1").SetUnique(true)},
		},
	}
}

// EnsureIndexes creates any missing index. Creating an existing index with
// the same definition is a no-op on the server.
func (d Database) EnsureIndexes(ctx context.Context) error {
	if d.IsMemory() {
		return nil
	}

	for name, indexes := range expectedIndexes() {
		if _, err := d.mongoDB.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// GenerateIndexReport writes, per collection, which expected indexes exist
// and returns how many are missing
func (d Database) GenerateIndexReport(ctx context.Context, out io.Writer) (int, error) {
	if d.IsMemory() {
		fmt.Fprintln(out, "In-memory database: no indexes to report.")
		return 0, nil
	}

	fmt.Fprintln(out, "=== INDEX REPORT ===")

	expected := expectedIndexes()
	collections := make([]string, 0, len(expected))
	for name := range expected {
		collections = append(collections, name)
	}
	sort.Strings(collections)

	totalMissing := 0
	for _, name := range collections {
		fmt.Fprintf(out, "\n--- Collection: %s ---\n", name)

		present, err := d.indexNames(ctx, name)
		if err != nil {
			return totalMissing, err
		}

		for _, model := range expected[name] {
			indexName := *model.Options.Name
			if present[indexName] {
				fmt.Fprintf(out, "  [ok]      %s\n", indexName)
			} else {
				fmt.Fprintf(out, "  [missing] %s\n", indexName)
				totalMissing++
			}
		}
	}

	fmt.Fprintln(out, "\n=== SUMMARY ===")
	fmt.Fprintf(out, "Total missing indexes across all collections: %d\n", totalMissing)
	return totalMissing, nil
}

func (d Database) indexNames(ctx context.Context, collection string) (map[string]bool, error) {
	cursor, err := d.mongoDB.Collection(collection).Indexes().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes on %s: %w", collection, err)
	}

	var specs []bson.M
	if err := cursor.All(ctx, &specs); err != nil {
		return nil, fmt.Errorf("read indexes on %s: %w", collection, err)
	}

	names := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if name, ok := spec["name"].(string); ok {
			names[name] = true
		}
	}
	return names, nil
}
