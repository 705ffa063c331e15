package main

import (
	"context"
	"testing"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ReturnsStartupErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
		message string
	}{
		{
			name:    "no signing secret",
			env:     map[string]string{"JWT_SECRET": "", "DB_TYPE": "memory"},
			wantErr: config.ErrMissingSigningSecret,
		},
		{
			name:    "unknown database",
			env:     map[string]string{"JWT_SECRET": "test-secret", "DB_TYPE": "sqlite"},
			message: `unsupported DB_TYPE "sqlite"`,
		},
		{
			name: "index report on the memory database",
			env:  map[string]string{"JWT_SECRET": "test-secret", "DB_TYPE": "memory", "GENERATE_INDEX_REPORT": "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"JWT_SECRET_SSM_PARAM", "S3_BUCKET", "GENERATE_INDEX_REPORT", "SEED_ADMIN_EMAIL", "SEED_ADMIN_PASSWORD"} {
				t.Setenv(key, "")
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			err := run()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.message != "":
				assert.EqualError(t, err, tt.message)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	db := database.NewMemory()
	settings := config.Settings{
		JWTSecret:         "test-secret",
		SeedAdminEmail:    "Admin@Example.com",
		SeedAdminPassword: "secret1",
	}

	require.NoError(t, seedAdmin(ctx, db, settings))
	require.NoError(t, seedAdmin(ctx, db, settings))

	count, err := db.AdminRepo().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	admin, err := db.AdminRepo().FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
}
