package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// MinProdSecretLength applies to JWT_SECRET outside dev and test.
const MinProdSecretLength = 32

type Config struct {
	Port int    `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"dev"` // dev, test, staging, prod

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Database Database `envPrefix:"DATABASE_"`
	JWT      JWT      `envPrefix:"JWT_"`
	SMTP     SMTP     `envPrefix:"SMTP_"`

	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`
	TxTimeout     time.Duration `env:"TX_TIMEOUT" envDefault:"5s"`

	PepperFile  string `env:"PEPPER_FILE" envDefault:"pepper"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	MailFrom    string `env:"MAIL_FROM" envDefault:"Pomodoro <no-reply@localhost>"`

	// StaticDir holds the built web client. Empty disables static hosting.
	StaticDir     string `env:"STATIC_DIR"`
	SecureCookies bool   `env:"SECURE_COOKIES" envDefault:"false"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite or postgres
	URL    string `env:"URL" envDefault:"file:pomodoro.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"`
}

type JWT struct {
	Secret string `env:"SECRET"`
	Issuer string `env:"ISSUER" envDefault:"pomodoro"`
}

// SMTP with an empty Host makes the server log mail instead of sending it.
type SMTP struct {
	Host     string        `env:"HOST"`
	Port     int           `env:"PORT" envDefault:"587"`
	Username string        `env:"USERNAME"`
	Password string        `env:"PASSWORD"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate reports settings the server must not start with.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.JWT.Secret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case !c.isDevelopment() && len(c.JWT.Secret) < MinProdSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes outside dev", MinProdSecretLength))
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.Database.Driver))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}
	if c.TxTimeout <= 0 {
		errs = append(errs, errors.New("TX_TIMEOUT must be positive"))
	}
	if c.HousekeepingInterval <= 0 {
		errs = append(errs, errors.New("HOUSEKEEPING_INTERVAL must be positive"))
	}

	return errors.Join(errs...)
}

func (c Config) isDevelopment() bool {
	return c.Env == "dev" || c.Env == "test"
}
