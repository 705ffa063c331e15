package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	settings := Load(map[string]string{})

	assert.Equal(t, "8080", settings.Port)
	assert.Equal(t, "development", settings.Environment)
	assert.Equal(t, "mongo", settings.DBType)
	assert.Equal(t, "portfolio", settings.MongoDB)
	assert.Equal(t, 180*time.Second, settings.ReadTimeout)
	assert.Equal(t, int64(10<<20), settings.UploadMaxBytes)
	assert.Equal(t, "smtp", settings.MailProvider)
	assert.Equal(t, 587, settings.SMTPPort)
	assert.Empty(t, settings.AcceptedOrigins)
	assert.Equal(t, DefaultImageURL, settings.DefaultImageURL)
	assert.False(t, settings.IsProduction())
	assert.False(t, settings.UsesAWS())
}

func TestLoad_FromEnvironment(t *testing.T) {
	settings := Load(map[string]string{
		"PORT":                 "9000",
		"APP_ENV":              "production",
		"ACCEPTED_ORIGINS":     "https://example.com, https://admin.example.com,,",
		"READ_TIMEOUT_SECONDS": "15",
		"SMTP_PORT":            "not-a-number",
		"S3_BUCKET":            "portfolio-assets",
		"CONTACT_TO":           "me@example.com",
	})

	assert.Equal(t, "9000", settings.Port)
	assert.True(t, settings.IsProduction())
	assert.Equal(t, []string{"https://example.com", "https://admin.example.com"}, settings.AcceptedOrigins)
	assert.Equal(t, 15*time.Second, settings.ReadTimeout)
	assert.Equal(t, 587, settings.SMTPPort)
	assert.Equal(t, []string{"me@example.com"}, settings.ContactTo)
	assert.True(t, settings.UsesAWS())
}

func TestGetBool(t *testing.T) {
	tests := []struct {
		name     string
		config   map[string]string
		expected bool
	}{
		{name: "missing", config: map[string]string{}, expected: false},
		{name: "true", config: map[string]string{"FLAG": "true"}, expected: true},
		{name: "one", config: map[string]string{"FLAG": "1"}, expected: true},
		{name: "garbage falls back", config: map[string]string{"FLAG": "yes please"}, expected: false},
		{name: "nil config", config: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetBool(tt.config, "FLAG", false))
		})
	}
}

type mockParameterGetter struct {
	mock.Mock
}

func (m *mockParameterGetter) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ssm.GetParameterOutput), args.Error(1)
}

func TestResolveSecrets(t *testing.T) {
	ctx := context.Background()

	t.Run("environment secret wins", func(t *testing.T) {
		params := &mockParameterGetter{}
		settings := Settings{JWTSecret: "from-env", JWTSecretSSMParam: "/portfolio/jwt"}

		require.NoError(t, ResolveSecrets(ctx, &settings, params))
		assert.Equal(t, "from-env", settings.JWTSecret)
		params.AssertNotCalled(t, "GetParameter", mock.Anything, mock.Anything)
	})

	t.Run("reads decrypted parameter", func(t *testing.T) {
		params := &mockParameterGetter{}
		params.On("GetParameter", ctx, mock.MatchedBy(func(in *ssm.GetParameterInput) bool {
			return aws.ToString(in.Name) == "/portfolio/jwt" && aws.ToBool(in.WithDecryption)
		})).Return(&ssm.GetParameterOutput{
			Parameter: &types.Parameter{Value: aws.String("from-ssm")},
		}, nil)

		settings := Settings{JWTSecretSSMParam: "/portfolio/jwt"}
		require.NoError(t, ResolveSecrets(ctx, &settings, params))
		assert.Equal(t, "from-ssm", settings.JWTSecret)
		params.AssertExpectations(t)
	})

	t.Run("parameter error", func(t *testing.T) {
		params := &mockParameterGetter{}
		params.On("GetParameter", ctx, mock.Anything).Return(nil, errors.New("access denied"))

		settings := Settings{JWTSecretSSMParam: "/portfolio/jwt"}
		err := ResolveSecrets(ctx, &settings, params)
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("no secret at all", func(t *testing.T) {
		settings := Settings{}
		assert.ErrorIs(t, ResolveSecrets(ctx, &settings, nil), ErrMissingSigningSecret)
	})
}
