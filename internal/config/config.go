package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The relational store (users, refresh tokens and
// form assignments) lives in MySQL while form schemas and submissions live
// in MongoDB, so both connection settings are required.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // MySQL username
    DBPass         string // MySQL password (optional)
    DBHost         string // MySQL host address
    DBPort         string // MySQL port number
    DBName         string // MySQL database name
    MongoURI       string // MongoDB connection string
    MongoDBName    string // MongoDB database name holding forms/fields/submissions
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing
    PageSizeMax    int    // maximum page_size accepted by paginated endpoints
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),                   // environment (dev/test/prod)
        Port:           must("APP_PORT"),                  // port to bind the HTTP server
        DBUser:         must("DB_USER"),                   // MySQL user
        DBPass:         os.Getenv("DB_PASS"),              // MySQL password (empty allowed)
        DBHost:         must("DB_HOST"),                   // MySQL host
        DBPort:         must("DB_PORT"),                   // MySQL port
        DBName:         must("DB_NAME"),                   // MySQL database name
        MongoURI:       must("MONGODB_URI"),               // MongoDB connection string
        MongoDBName:    must("MONGODB_NAME"),              // MongoDB database name
        JWTSecret:      must("JWT_SECRET"),                // secret used for signing JWTs
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
        BcryptCost:     mustInt("BCRYPT_COST"),            // bcrypt cost factor
        PageSizeMax:    intOr("PAGE_SIZE_MAX", 100),       // cap for page_size query values
    }
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
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// intOr reads an optional integer environment variable and falls back to the
// given default when the variable is unset or malformed.
func intOr(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil || n <= 0 {
        return def
    }
    return n
}
