// Package config reads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

const ProductionEnv = "production"

type Config struct {
	Port string `validate:"required"`
	Env  string

	MongoURI      string `validate:"required"`
	MongoDatabase string `validate:"required"`

	JWTSecret  string        `validate:"required"`
	SessionTTL time.Duration `validate:"gt=0"`

	GCSBucket       string `validate:"required"`
	GCSCredentials  string
	CORSOrigins     []string `validate:"min=1,dive,required"`
	SweepSchedule   string   `validate:"required"`
	DuplicateRadius float64  `validate:"gt=0"`
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func (c *Config) IsProduction() bool {
	return c.Env == ProductionEnv
}

// Load reads .env files when present and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Warnf("config: no .env file loaded: %v", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the config from lookup, applying defaults for unset keys.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return fallback
	}

	ttl, err := cast.ToDurationE(get("SESSION_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	radius, err := cast.ToFloat64E(get("DUPLICATE_THRESHOLD", "0.0005"))
	if err != nil {
		return Config{}, fmt.Errorf("DUPLICATE_THRESHOLD: %w", err)
	}

	var origins []string
	for _, origin := range strings.Split(get("CORS_ORIGINS", "http://localhost:5173"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	config := Config{
		Port:            get("PORT", "8080"),
		Env:             get("ENV", "development"),
		MongoURI:        get("MONGODB_URI", ""),
		MongoDatabase:   get("MONGODB_DATABASE", "mapmyissues"),
		JWTSecret:       get("JWT_SECRET", ""),
		SessionTTL:      ttl,
		GCSBucket:       get("GCS_BUCKET", ""),
		GCSCredentials:  get("GOOGLE_APPLICATION_CREDENTIALS", ""),
		CORSOrigins:     origins,
		SweepSchedule:   get("SESSION_SWEEP_SCHEDULE", "@hourly"),
		DuplicateRadius: radius,
	}

	if err = config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}
