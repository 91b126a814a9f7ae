package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Settings struct {
	Port    string `envconfig:"PORT" default:"8080"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	AppName string `envconfig:"APP_NAME" default:"ParkSpace"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"72h"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	RedisURL      string        `envconfig:"REDIS_URL"`
	StatsCacheTTL time.Duration `envconfig:"STATS_CACHE_TTL" default:"30s"`

	CloudinaryURL string `envconfig:"CLOUDINARY_URL"`
	UploadFolder  string `envconfig:"UPLOAD_FOLDER" default:"parkspace_payment_proofs"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	AdminFullName string `envconfig:"ADMIN_FULL_NAME" default:"ParkSpace Admin"`

	DefaultHourlyRate int    `envconfig:"DEFAULT_HOURLY_RATE" default:"150"`
	CronEnabled       bool   `envconfig:"CRON_ENABLED" default:"true"`
	CORSOrigins       string `envconfig:"CORS_ORIGINS" default:"*"`
}

// App is the settings snapshot loaded at startup.
var App = Defaults()

// Defaults returns the settings used when nothing has been loaded yet.
func Defaults() *Settings {
	return &Settings{
		Port:              "8080",
		AppEnv:            "development",
		AppName:           "ParkSpace",
		JWTTTL:            72 * time.Hour,
		LogLevel:          "info",
		LogFormat:         "json",
		StatsCacheTTL:     30 * time.Second,
		UploadFolder:      "parkspace_payment_proofs",
		AdminFullName:     "ParkSpace Admin",
		DefaultHourlyRate: 150,
		CronEnabled:       true,
		CORSOrigins:       "*",
	}
}

// Load reads .env (when present) and then the process environment.
func Load() (*Settings, error) {
	envFileErr := godotenv.Load(".env")

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if s.DefaultHourlyRate <= 0 {
		return nil, fmt.Errorf("DEFAULT_HOURLY_RATE must be positive, got %d", s.DefaultHourlyRate)
	}
	App = &s

	if envFileErr != nil {
		return &s, ErrNoEnvFile
	}
	return &s, nil
}

// ErrNoEnvFile is returned alongside valid settings when .env is absent.
var ErrNoEnvFile = fmt.Errorf(".env file not found, reading from system environment variables")

func (s *Settings) IsProduction() bool {
	return strings.EqualFold(s.AppEnv, "production")
}
