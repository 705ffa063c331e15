package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	api "github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Exiting")
	}
}

// run wires and serves the app. Every exit path returns here so deferred
// cleanup such as the mongo disconnect always runs.
func run() error {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	env := config.New()
	settings := config.Load(env)
	setupLogger(settings)

	if envErr != nil {
		log.Warn().Err(envErr).Msg("No .env file loaded, using process environment")
	}
	log.Info().Str("env", settings.Environment).Str("dbType", settings.DBType).Msg("Initializing app...")

	ctx := context.Background()

	var awsCfg aws.Config
	if settings.UsesAWS() {
		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(settings.AWSRegion))
		if err != nil {
			return fmt.Errorf("loading AWS configuration: %w", err)
		}
	}

	var params config.ParameterGetter
	if settings.JWTSecret == "" && settings.JWTSecretSSMParam != "" {
		params = ssm.NewFromConfig(awsCfg)
	}
	if err := config.ResolveSecrets(ctx, &settings, params); err != nil {
		return fmt.Errorf("resolving secrets: %w", err)
	}

	var currentDB database.Database
	switch settings.DBType {
	case "mongo":
		log.Info().Str("database", settings.MongoDB).Msg("Connecting to MongoDB...")
		client, err := database.Connect(ctx, settings.MongoURI)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer disconnect(client)
		currentDB = database.New(client.Database(settings.MongoDB))
	case "memory":
		log.Warn().Msg("Using in-memory database; data is lost on exit")
		currentDB = database.NewMemory()
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", settings.DBType)
	}

	// If generating the index report, run it and exit
	if config.GetBool(env, "GENERATE_INDEX_REPORT", false) {
		missing, err := currentDB.GenerateIndexReport(ctx, os.Stdout)
		if err != nil {
			return fmt.Errorf("generating index report: %w", err)
		}
		log.Info().Int("missing", missing).Msg("Index report done")
		return nil
	}

	if err := currentDB.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	if err := seedAdmin(ctx, currentDB, settings); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	var opts []api.Option
	if settings.S3Bucket != "" {
		opts = append(opts, api.WithUploader(services.NewS3Uploader(awsCfg,
			settings.S3Bucket, settings.S3Prefix, settings.S3Endpoint, settings.UploadPublicBaseURL)))
	} else {
		log.Warn().Msg("S3_BUCKET not set, uploads are disabled")
	}
	if contact := newContactService(settings); contact != nil {
		opts = append(opts, api.WithContactService(contact))
	} else {
		log.Warn().Msg("Mail not configured, contact form is disabled")
	}

	server, err := api.NewServer(settings, currentDB, opts...)
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	errChannel := make(chan error, 2)
	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	return nil
}

func setupLogger(settings config.Settings) {
	level, err := zerolog.ParseLevel(strings.ToLower(settings.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if settings.IsProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// seedAdmin registers the admin from SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD
// unless one already exists
func seedAdmin(ctx context.Context, db database.Database, settings config.Settings) error {
	if settings.SeedAdminEmail == "" || settings.SeedAdminPassword == "" {
		return nil
	}

	count, err := db.AdminRepo().Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info().Msg("Admin already exists, skipping seed")
		return nil
	}

	authService := services.NewAuthService(db.AdminRepo(), auth.NewTokenService(settings.JWTSecret))
	session, err := authService.Register(ctx, models.Credentials{
		Email:    settings.SeedAdminEmail,
		Password: settings.SeedAdminPassword,
	})
	if err != nil {
		return err
	}
	log.Info().Str("email", session.Admin.Email).Msg("Seeded admin")
	return nil
}

func newContactService(settings config.Settings) *services.ContactService {
	var mailer services.Mailer
	switch settings.MailProvider {
	case "resend":
		if settings.ResendAPIKey != "" && settings.MailFrom != "" {
			mailer = services.NewResendMailer(settings.ResendAPIKey, settings.MailFrom)
		}
	case "smtp":
		if settings.SMTPUser != "" && settings.SMTPPassword != "" {
			mailer = services.NewSMTPMailer(settings.SMTPHost, settings.SMTPPort,
				settings.SMTPUser, settings.SMTPPassword, settings.MailFrom)
		}
	default:
		log.Warn().Str("provider", settings.MailProvider).Msg("Unknown MAIL_PROVIDER")
	}
	if mailer == nil {
		return nil
	}

	var notifier services.Notifier
	if settings.TwilioAccountSID != "" && settings.TwilioAuthToken != "" && settings.TwilioFrom != "" && settings.ContactSMSTo != "" {
		notifier = services.NewTwilioNotifier(settings.TwilioAccountSID, settings.TwilioAuthToken,
			settings.TwilioFrom, settings.ContactSMSTo)
	}

	return services.NewContactService(mailer, notifier, settings.ContactTo)
}

func disconnect(client *mongo.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("Error disconnecting from MongoDB")
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
