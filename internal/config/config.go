package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    MongoURI       string // MongoDB connection string
    MongoDB        string // MongoDB database name
    JWTSecret      string // secret used to sign session JWTs
    SessionTTLDays int    // session token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing

    SeedAdminName     string // display name of the bootstrap admin
    SeedAdminEmail    string // email of the bootstrap admin
    SeedAdminPassword string // initial password of the bootstrap admin
    SeedOpName        string // display name of the bootstrap operator
    SeedOpEmail       string // email of the bootstrap operator
    SeedOpPassword    string // initial password of the bootstrap operator

    SMTPHost string // outbound mail server host (empty disables real sending)
    SMTPPort string // outbound mail server port
    SMTPUser string // SMTP auth username
    SMTPPass string // SMTP auth password
    SMTPFrom string // From address on outbound mail

    RedisAddr     string // host:port of the Redis server backing cache and rate limiting
    RedisPassword string // optional Redis password
    RedisDB       int    // Redis database number
    RedisTLS      bool   // dial Redis over TLS
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Mail settings are
// optional: when SMTP_HOST is unset the mailer reports every send as failed
// and operator provisioning falls back to returning the temp password.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),
        Port:           must("APP_PORT"),
        MongoURI:       must("MONGO_URI"),
        MongoDB:        must("MONGO_DB"),
        JWTSecret:      must("JWT_SECRET"),
        SessionTTLDays: mustInt("SESSION_TTL_DAYS"),
        BcryptCost:     mustInt("BCRYPT_COST"),

        SeedAdminName:     getenv("SEED_ADMIN_NAME", "Administrator"),
        SeedAdminEmail:    must("SEED_ADMIN_EMAIL"),
        SeedAdminPassword: must("SEED_ADMIN_PASSWORD"),
        SeedOpName:        getenv("SEED_OPERATOR_NAME", "Default Operator"),
        SeedOpEmail:       must("SEED_OPERATOR_EMAIL"),
        SeedOpPassword:    must("SEED_OPERATOR_PASSWORD"),

        SMTPHost: os.Getenv("SMTP_HOST"),
        SMTPPort: getenv("SMTP_PORT", "587"),
        SMTPUser: os.Getenv("SMTP_USER"),
        SMTPPass: os.Getenv("SMTP_PASS"),
        SMTPFrom: getenv("SMTP_FROM", "no-reply@restspot.example"),

        RedisAddr:     redisAddr(),
        RedisPassword: os.Getenv("REDIS_PASSWORD"),
        RedisDB:       envInt("REDIS_DB", 0),
        RedisTLS:      envBool("REDIS_TLS", false),
    }
}

// redisAddr resolves the Redis address.  REDIS_HOST/REDIS_PORT win over the
// REDIS_ADDR shorthand; without either the local default applies.
func redisAddr() string {
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        return host + ":" + port
    }
    return getenv("REDIS_ADDR", "localhost:6379")
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
