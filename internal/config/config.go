package config // package config loads application configuration from environment variables

import (
	"log/slog" // slog reports configuration errors before the process halts
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets are never compiled into the binary; they
// must be provided by the environment (or a .env file loaded at startup).
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	DBUser           string        // database username
	DBPass           string        // database password (optional)
	DBHost           string        // database host address
	DBPort           string        // database port number
	DBName           string        // database name
	JWTSecret        string        // secret used to sign session tokens
	ProductKeySecret string        // secret mixed into product keys for privileged signup
	TokenTTL         time.Duration // session token lifetime
	BcryptCost       int           // bcrypt cost for password and product key hashing
	MigrateOnStart   bool          // apply embedded SQL migrations before serving
	LogLevel         string        // debug, info, warn or error
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit.
func Load() Config {
	return Config{
		Env:              envStr("APP_ENV", "dev"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"), // empty allowed
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		JWTSecret:        must("JWT_SECRET"),
		ProductKeySecret: must("PRODUCT_KEY_SECRET"),
		TokenTTL:         time.Duration(intOr("TOKEN_TTL_SEC", 36000)) * time.Second,
		BcryptCost:       intOr("BCRYPT_COST", 10),
		MigrateOnStart:   envBool("DB_MIGRATE", true),
		LogLevel:         envStr("LOG_LEVEL", "info"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs an error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		slog.Error("missing required env var", "key", key)
		os.Exit(1)
	}
	return v
}

// intOr reads an optional integer.  A value that is present but not a number
// is a configuration mistake and halts startup rather than silently falling
// back.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		slog.Error("invalid int env var", "key", key, "value", s)
		os.Exit(1)
	}
	return n
}
