package services

import (
	"context"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is an admin together with a freshly signed token for it
type Session struct {
	Admin *models.Admin
	Token string
}

type AuthService struct {
	admins database.AdminRepository
	tokens *auth.TokenService
	logger zerolog.Logger
}

func NewAuthService(admins database.AdminRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{
		admins: admins,
		tokens: tokens,
		logger: log.With().Str("service", "auth").Logger(),
	}
}

// Register creates the sole admin. It is rejected once any admin exists.
func (s *AuthService) Register(ctx context.Context, creds models.Credentials) (Session, error) {
	if err := models.Validate(creds); err != nil {
		return Session{}, err
	}

	count, err := s.admins.Count(ctx)
	if err != nil {
		return Session{}, err
	}
	if count > 0 {
		return Session{}, errs.NewAdminExistsError()
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return Session{}, errs.NewInternalErrorWithCause("Failed to hash password", err)
	}

	admin := &models.Admin{
		Email:        creds.Email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.admins.Insert(ctx, admin); err != nil {
		return Session{}, err
	}

	s.logger.Info().Str("email", admin.Email).Msg("admin registered")
	return s.session(admin)
}

// Login checks the credentials. An unknown email and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (Session, error) {
	if creds.Email == "" {
		return Session{}, errs.NewMissingRequiredFieldError("email")
	}
	if creds.Password == "" {
		return Session{}, errs.NewMissingRequiredFieldError("password")
	}

	admin, err := s.admins.FindByEmail(ctx, creds.Email)
	if err != nil {
		return Session{}, err
	}
	if admin == nil || !auth.CheckPassword(admin.PasswordHash, creds.Password) {
		s.logger.Warn().Str("email", models.NormalizeEmail(creds.Email)).Msg("failed login attempt")
		return Session{}, errs.NewInvalidCredentialsError()
	}

	return s.session(admin)
}

// Me loads the admin behind a verified session identity
func (s *AuthService) Me(ctx context.Context, identity auth.Identity) (*models.Admin, error) {
	return s.load(ctx, identity)
}

// UpdateCredentials changes the admin's email and/or password. The email
// uniqueness check runs before anything is written, and a new token is
// issued whether or not anything changed.
func (s *AuthService) UpdateCredentials(ctx context.Context, identity auth.Identity, update models.CredentialsUpdate) (Session, error) {
	if err := models.Validate(update); err != nil {
		return Session{}, err
	}

	admin, err := s.load(ctx, identity)
	if err != nil {
		return Session{}, err
	}

	set := bson.M{}
	if update.Email != nil {
		email := models.NormalizeEmail(*update.Email)
		if email != "" && email != admin.Email {
			other, err := s.admins.FindByEmail(ctx, email)
			if err != nil {
				return Session{}, err
			}
			if other != nil && other.ID != admin.ID {
				return Session{}, errs.NewEmailInUseError()
			}
			set["email"] = email
		}
	}

	if update.Password != nil && *update.Password != "" {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return Session{}, errs.NewInternalErrorWithCause("Failed to hash password", err)
		}
		set["passwordHash"] = hash
	}

	if len(set) > 0 {
		if err := s.admins.UpdateFields(ctx, admin.ID, set); err != nil {
			return Session{}, err
		}
		if email, ok := set["email"].(string); ok {
			admin.Email = email
		}
		if hash, ok := set["passwordHash"].(string); ok {
			admin.PasswordHash = hash
		}
		s.logger.Info().Str("adminId", admin.ID.Hex()).Int("fields", len(set)).Msg("admin credentials updated")
	}

	return s.session(admin)
}

// Tokens exposes the token service used to sign sessions
func (s *AuthService) Tokens() *auth.TokenService {
	return s.tokens
}

func (s *AuthService) load(ctx context.Context, identity auth.Identity) (*models.Admin, error) {
	id, err := primitive.ObjectIDFromHex(identity.ID)
	if err != nil {
		return nil, errs.Unauthorized
	}

	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, errs.NewNotFoundError("Admin not found")
	}
	return admin, nil
}

func (s *AuthService) session(admin *models.Admin) (Session, error) {
	token, err := s.tokens.Sign(auth.Identity{ID: admin.ID.Hex(), Email: admin.Email})
	if err != nil {
		return Session{}, errs.NewInternalErrorWithCause("Failed to sign session token", err)
	}
	return Session{Admin: admin, Token: token}, nil
}
