package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/youssef9656/server/pkg/logx"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	Env       string
	Port      string
	LogLevel  string
	LogJSON   bool
	PublicURL string

	CORSOrigins string

	Store    StoreConfig
	Redis    RedisConfig
	Files    FileConfig
	Mail     MailConfig
	Auth     AuthConfig
	Limits   LimitConfig
	Notifier NotifierConfig
}

type StoreConfig struct {
	Driver string // postgres | mongo | memory

	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string
	Migrate   bool

	MongoURI string
	MongoDB  string
}

// DSN builds the lib/pq connection string
func (s StoreConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.DBHost, s.DBPort, s.DBUser, s.DBPass, s.DBName, s.DBSSLMode)
}

type RedisConfig struct {
	Addr string
	Pass string
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type FileConfig struct {
	Driver    string // local | s3 | gcs
	UploadDir string
	AWSRegion string
	AWSBucket string
	GCSBucket string
	MaxUpload int64
}

type MailConfig struct {
	Driver           string // smtp | gmail | console
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	From             string
	GmailCredentials string
	GmailToken       string
	OpsMailbox       string
}

type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	SessionTokenTTL time.Duration
	Issuer          string
	AdminEmail      string
	AdminPassword   string
}

type LimitConfig struct {
	Requests int
	Window   time.Duration
}

type NotifierConfig struct {
	Workers       int
	QueueName     string
	TemplatesFile string
}

// Load reads .env when present, then the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logx.Debugf("no .env file loaded: %v", err)
	}

	cfg := &Config{
		Env:         getEnv("APP_ENV", EnvDevelopment),
		Port:        getEnv("PORT", "5000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogJSON:     getEnv("LOG_FORMAT", "text") == "json",
		PublicURL:   strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:5000"), "/"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		Store: StoreConfig{
			Driver:    getEnv("STORE_DRIVER", "postgres"),
			DBHost:    getEnv("DB_HOST", "localhost"),
			DBPort:    getEnv("DB_PORT", "5432"),
			DBUser:    getEnv("DB_USER", "postgres"),
			DBPass:    getEnv("DB_PASS", ""),
			DBName:    getEnv("DB_NAME", "candidatures"),
			DBSSLMode: getEnv("DB_SSLMODE", "disable"),
			Migrate:   getBool("DB_MIGRATE", true),
			MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:   getEnv("MONGO_DB", "candidatures"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
			Pass: getEnv("REDIS_PASS", ""),
		},
		Files: FileConfig{
			Driver:    getEnv("FILE_STORAGE", "local"),
			UploadDir: getEnv("UPLOAD_DIR", "."),
			AWSRegion: getEnv("AWS_REGION", ""),
			AWSBucket: getEnv("AWS_BUCKET", ""),
			GCSBucket: getEnv("GCS_BUCKET", ""),
			MaxUpload: getInt64("MAX_UPLOAD_MB", 5) * 1024 * 1024,
		},
		Mail: MailConfig{
			Driver:           getEnv("MAIL_DRIVER", "console"),
			SMTPHost:         getEnv("SMTP_HOST", ""),
			SMTPPort:         getInt("SMTP_PORT", 587),
			SMTPUser:         getEnv("SMTP_USER", ""),
			SMTPPass:         getEnv("SMTP_PASS", ""),
			From:             getEnv("MAIL_FROM", ""),
			GmailCredentials: getEnv("GMAIL_CREDENTIALS", "credentials.json"),
			GmailToken:       getEnv("GMAIL_TOKEN", "token.json"),
			OpsMailbox:       getEnv("OPS_MAILBOX", ""),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", time.Hour),
			SessionTokenTTL: getDuration("SESSION_TOKEN_TTL", 7*24*time.Hour),
			Issuer:          getEnv("JWT_ISSUER", "candidatures-api"),
			AdminEmail:      getEnv("ADMIN_EMAIL", ""),
			AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		},
		Limits: LimitConfig{
			Requests: getInt("RATE_LIMIT", 20),
			Window:   getDuration("RATE_WINDOW", time.Minute),
		},
		Notifier: NotifierConfig{
			Workers:       getInt("NOTIFY_WORKERS", 2),
			QueueName:     getEnv("NOTIFY_QUEUE", "notifications"),
			TemplatesFile: getEnv("TEMPLATES_FILE", ""),
		},
	}

	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.SMTPUser
	}
	return cfg
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		logx.Warnf("invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getInt64(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		logx.Warnf("invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		logx.Warnf("invalid duration for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
