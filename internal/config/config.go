package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The admin credential pair and the map
// provider token are externally supplied; the repositories will not
// function without the database variables.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign admin session tokens
	AccessTTLMin int    // admin session token time-to-live in minutes
	AdminEmail   string // admin login email
	AdminPass    string // admin login password (plain; ignored when hash is set)
	AdminHash    string // bcrypt hash of the admin password (optional, preferred)
	MapboxToken  string // map-provider API token handed to the frontend
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and a
// missing value causes the process to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		AdminEmail:   must("ADMIN_EMAIL"),
		AdminPass:    os.Getenv("ADMIN_PASSWORD"),
		AdminHash:    os.Getenv("ADMIN_PASSWORD_HASH"),
		MapboxToken:  os.Getenv("MAPBOX_TOKEN"),
	}
	if cfg.AdminPass == "" && cfg.AdminHash == "" {
		log.Fatal("one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
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
