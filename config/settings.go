package config

import "time"

// DefaultImageURL is the placeholder given to projects and blogs created
// without images when DEFAULT_IMAGE_URL is not set
const DefaultImageURL = "/images/placeholder.png"

// Settings is the typed view of the environment used to wire the server
type Settings struct {
	Port         string
	Environment  string
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	DBType   string
	MongoURI string
	MongoDB  string

	JWTSecret         string
	JWTSecretSSMParam string

	AcceptedOrigins []string
	DefaultImageURL string

	AWSRegion           string
	S3Bucket            string
	S3Prefix            string
	S3Endpoint          string
	UploadPublicBaseURL string
	UploadMaxBytes      int64

	MailProvider string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	ResendAPIKey string
	ContactTo    []string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	ContactSMSTo     string

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads Settings out of an environment map built with New
func Load(c map[string]string) Settings {
	return Settings{
		Port:         GetString(c, "PORT", "8080"),
		Environment:  GetString(c, "APP_ENV", "development"),
		LogLevel:     GetString(c, "LOG_LEVEL", "info"),
		ReadTimeout:  time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout: time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:  time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,

		DBType:   GetString(c, "DB_TYPE", "mongo"),
		MongoURI: GetString(c, "MONGO_URI", ""),
		MongoDB:  GetString(c, "MONGO_DB", "portfolio"),

		JWTSecret:         GetString(c, "JWT_SECRET", ""),
		JWTSecretSSMParam: GetString(c, "JWT_SECRET_SSM_PARAM", ""),

		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		DefaultImageURL: GetString(c, "DEFAULT_IMAGE_URL", DefaultImageURL),

		AWSRegion:           GetString(c, "AWS_REGION", "us-east-1"),
		S3Bucket:            GetString(c, "S3_BUCKET", ""),
		S3Prefix:            GetString(c, "S3_PREFIX", "uploads/"),
		S3Endpoint:          GetString(c, "S3_ENDPOINT", ""),
		UploadPublicBaseURL: GetString(c, "UPLOAD_PUBLIC_BASE_URL", ""),
		UploadMaxBytes:      int64(GetInt(c, "UPLOAD_MAX_BYTES", 10<<20)),

		MailProvider: GetString(c, "MAIL_PROVIDER", "smtp"),
		SMTPHost:     GetString(c, "SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     GetInt(c, "SMTP_PORT", 587),
		SMTPUser:     GetString(c, "SMTP_USER", ""),
		SMTPPassword: GetString(c, "SMTP_PASSWORD", ""),
		MailFrom:     GetString(c, "MAIL_FROM", ""),
		ResendAPIKey: GetString(c, "RESEND_API_KEY", ""),
		ContactTo:    GetList(c, "CONTACT_TO"),

		TwilioAccountSID: GetString(c, "TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  GetString(c, "TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:       GetString(c, "TWILIO_FROM", ""),
		ContactSMSTo:     GetString(c, "CONTACT_SMS_TO", ""),

		SeedAdminEmail:    GetString(c, "SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: GetString(c, "SEED_ADMIN_PASSWORD", ""),
	}
}

func (s Settings) IsProduction() bool {
	return s.Environment == "production"
}

// UsesAWS reports whether any feature needs an AWS configuration
func (s Settings) UsesAWS() bool {
	return s.S3Bucket != "" || (s.JWTSecret == "" && s.JWTSecretSSMParam != "")
}
