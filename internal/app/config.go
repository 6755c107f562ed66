package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/yungbote/coursegen-backend/internal/data/db"
	"github.com/yungbote/coursegen-backend/internal/services"
)

// Storage modes for banner images. gcs and gcs_emulator are handled by
// platform/gcp; local writes under LOCAL_MEDIA_DIR and serves /media.
const (
	StorageModeNone        = "none"
	StorageModeLocal       = "local"
	StorageModeGCS         = "gcs"
	StorageModeGCSEmulator = "gcs_emulator"
)

type Config struct {
	Port     string `env:"PORT" env-default:"8080"`
	AppEnv   string `env:"APP_ENV" env-default:"development"`
	Version  string `env:"APP_VERSION" env-default:"dev"`
	LogMode  string `env:"LOG_MODE" env-default:"development"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	LogSalt  string `env:"LOG_HASH_SALT"`

	DB      DBConfig
	Auth    AuthConfig
	OpenAI  OpenAIConfig
	YouTube YouTubeConfig
	Image   ImageConfig
	Storage StorageConfig
	Content ContentConfig
	Redis   RedisConfig
	Otel    OtelConfig
	HTTP    HTTPConfig
}

type DBConfig struct {
	Driver      string `env:"DB_DRIVER" env-default:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	Host        string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port        string `env:"POSTGRES_PORT" env-default:"5432"`
	User        string `env:"POSTGRES_USER" env-default:"postgres"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Name        string `env:"POSTGRES_NAME" env-default:"coursegen"`
	SSLMode     string `env:"POSTGRES_SSLMODE" env-default:"disable"`
	SQLitePath  string `env:"SQLITE_PATH" env-default:"coursegen.db"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

type AuthConfig struct {
	JWTSecret       string `env:"AUTH_JWT_SECRET"`
	JWTPublicKeyPEM string `env:"AUTH_JWT_PUBLIC_KEY_PEM"`
	JWTIssuer       string `env:"AUTH_JWT_ISSUER"`
	EmailClaim      string `env:"AUTH_EMAIL_CLAIM" env-default:"email"`
	CookieName      string `env:"AUTH_COOKIE_NAME" env-default:"__session"`
}

type OpenAIConfig struct {
	APIKey           string  `env:"OPENAI_API_KEY"`
	BaseURL          string  `env:"OPENAI_BASE_URL"`
	Model            string  `env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	Temperature      float32 `env:"OPENAI_TEMPERATURE" env-default:"0.2"`
	TimeoutSeconds   int     `env:"OPENAI_TIMEOUT_SECONDS" env-default:"180"`
	MaxRetries       int     `env:"OPENAI_MAX_RETRIES" env-default:"2"`
	StructuredOutput bool    `env:"OPENAI_STRUCTURED_OUTPUT" env-default:"true"`
}

type YouTubeConfig struct {
	APIKey     string `env:"YOUTUBE_API_KEY"`
	MaxResults int    `env:"YOUTUBE_MAX_RESULTS" env-default:"4"`
	Always     bool   `env:"YOUTUBE_ALWAYS" env-default:"true"`
}

type ImageConfig struct {
	Provider string `env:"IMAGE_PROVIDER" env-default:"http"`
	APIKey   string `env:"IMAGE_API_KEY"`
	URL      string `env:"IMAGE_API_URL"`
	Model    string `env:"IMAGE_MODEL" env-default:"flux"`
	Size     string `env:"IMAGE_SIZE" env-default:"1792x1024"`
}

type StorageConfig struct {
	Mode            string `env:"OBJECT_STORAGE_MODE" env-default:"none"`
	Bucket          string `env:"BANNER_GCS_BUCKET_NAME"`
	EmulatorHost    string `env:"STORAGE_EMULATOR_HOST"`
	PublicBaseURL   string `env:"OBJECT_STORAGE_PUBLIC_BASE_URL"`
	CDNDomain       string `env:"BANNER_CDN_DOMAIN"`
	CredentialsJSON string `env:"GOOGLE_APPLICATION_CREDENTIALS_JSON"`
	LocalMediaDir   string `env:"LOCAL_MEDIA_DIR" env-default:"./media"`
	FallbackEnabled bool   `env:"BANNER_FALLBACK_ENABLED" env-default:"true"`
}

type ContentConfig struct {
	MaxParallel   int    `env:"CONTENT_MAX_PARALLEL" env-default:"4"`
	FailurePolicy string `env:"CONTENT_FAILURE_POLICY" env-default:"per_chapter"`
	CourseLimit   int    `env:"COURSE_LIMIT_PER_USER" env-default:"0"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	Channel  string `env:"REDIS_CHANNEL" env-default:"coursegen:sse"`
}

type OtelConfig struct {
	Enabled     bool    `env:"OTEL_ENABLED" env-default:"false"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" env-default:"coursegen"`
	Endpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Headers     string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	Insecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"false"`
	SampleRatio float64 `env:"OTEL_TRACES_SAMPLER_RATIO" env-default:"1"`
}

type HTTPConfig struct {
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:","`
	MetricsEnabled     bool     `env:"METRICS_ENABLED" env-default:"true"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, c.DB.Driver))
	}

	if strings.TrimSpace(c.Auth.JWTSecret) == "" && strings.TrimSpace(c.Auth.JWTPublicKeyPEM) == "" {
		errs = append(errs, errors.New("one of AUTH_JWT_SECRET or AUTH_JWT_PUBLIC_KEY_PEM is required"))
	}
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		errs = append(errs, errors.New("missing OPENAI_API_KEY"))
	}

	switch c.StorageMode() {
	case StorageModeNone, StorageModeLocal, StorageModeGCS, StorageModeGCSEmulator:
	default:
		errs = append(errs, fmt.Errorf("OBJECT_STORAGE_MODE must be one of none, local, gcs, gcs_emulator; got %q", c.Storage.Mode))
	}

	if _, err := services.ParseFailurePolicy(c.Content.FailurePolicy); err != nil {
		errs = append(errs, err)
	}
	if c.Content.CourseLimit < 0 {
		errs = append(errs, errors.New("COURSE_LIMIT_PER_USER must be >= 0"))
	}
	return errors.Join(errs...)
}

func (c Config) StorageMode() string {
	mode := strings.ToLower(strings.TrimSpace(c.Storage.Mode))
	if mode == "" {
		return StorageModeNone
	}
	return mode
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if strings.EqualFold(strings.TrimSpace(c.DB.Driver), db.DriverSQLite) {
		return c.DB.SQLitePath
	}
	if url := strings.TrimSpace(c.DB.DatabaseURL); url != "" {
		return url
	}
	return db.PostgresDSN(c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
