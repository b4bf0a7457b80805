package config // package config loads application configuration from environment variables

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	DBMigrate      bool   // create missing tables on startup
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	Notify NotifyConfig
	Mail   MailConfig
	Queue  QueueConfig
	Seed   SeedConfig
}

// NotifyConfig selects how emails leave the process.
//
//	queue – publish to RabbitMQ, delivered by the in-process consumer
//	smtp  – deliver synchronously through SMTP
//	log   – only log the message (development)
type NotifyConfig struct {
	Driver string
}

// SeedConfig describes the super admin ensured at startup.
type SeedConfig struct {
	Enabled       bool
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is applied first when one
// exists; real environment variables win over it.  Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}
	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMigrate:      envBool("DB_MIGRATE", true),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		Notify:         NotifyConfig{Driver: strings.ToLower(envStr("NOTIFY_DRIVER", "log"))},
		Mail:           LoadMailConfig(),
		Queue:          LoadQueueConfig(),
		Seed: SeedConfig{
			Enabled:       envBool("DB_SEED", false),
			AdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
			AdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
			AdminName:     envStr("SEED_ADMIN_NAME", "Super Admin"),
		},
	}
	switch cfg.Notify.Driver {
	case "queue", "smtp", "log":
	default:
		log.Fatalf("invalid NOTIFY_DRIVER %q (want queue, smtp or log)", cfg.Notify.Driver)
	}
	if cfg.Seed.Enabled && (cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "") {
		log.Fatalf("DB_SEED requires SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
