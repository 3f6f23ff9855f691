package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"marketchat"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"marketchat_dev_password"`
	DBName     string `env:"DB_NAME" envDefault:"marketchat"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	// AllowInsecureUserID lets clients identify with ?user_id= instead of a
	// signed token. Dev only.
	AllowInsecureUserID bool `env:"ALLOW_INSECURE_USER_ID" envDefault:"false"`

	// TranslateURL points at a LibreTranslate-compatible endpoint. Empty
	// disables translation (messages pass through untranslated).
	TranslateURL     string        `env:"TRANSLATE_URL"`
	TranslateAPIKey  string        `env:"TRANSLATE_API_KEY"`
	TranslateTimeout time.Duration `env:"TRANSLATE_TIMEOUT" envDefault:"5s"`

	DevLogging bool `env:"DEV_LOGGING" envDefault:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}
	return &cfg, nil
}

// DatabaseURL builds the pgx connection string from the discrete DB fields.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
