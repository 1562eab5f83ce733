package config

import (
	"os"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTPublicKeyPath string

	// Email channel provider: "ses" or "smtp".
	EmailProvider string
	EmailFrom     string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string

	SNSRegion string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	VerificationBatches    string
	EmailVerifications     string
	Campaigns              string
	CampaignAnalytics      string
	Contacts               string
	ContactLists           string
	ContactListMemberships string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			VerificationBatches:    getEnv("DYNAMO_TABLE_VERIFICATION_BATCHES", "verification_batches"),
			EmailVerifications:     getEnv("DYNAMO_TABLE_EMAIL_VERIFICATIONS", "email_verifications"),
			Campaigns:              getEnv("DYNAMO_TABLE_CAMPAIGNS", "campaigns"),
			CampaignAnalytics:      getEnv("DYNAMO_TABLE_CAMPAIGN_ANALYTICS", "campaign_analytics"),
			Contacts:               getEnv("DYNAMO_TABLE_CONTACTS", "contacts"),
			ContactLists:           getEnv("DYNAMO_TABLE_CONTACT_LISTS", "contact_lists"),
			ContactListMemberships: getEnv("DYNAMO_TABLE_CONTACT_LIST_MEMBERSHIPS", "contact_list_memberships"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "marketing-api-imports"),

		JWTPublicKeyPath: getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),

		EmailProvider: getEnv("EMAIL_PROVIDER", "smtp"),
		EmailFrom:     getEnv("EMAIL_FROM", "Campaign <noreply@example.com>"),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnv("SMTP_PORT", "1025"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
