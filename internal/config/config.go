package config

import (
	"os"
	"strconv"

	"quickdrop/internal/mylogger"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	Srv      *Serviceconfig
	App      *Appconfig
	Dispatch *Dispatchconfig
	Geocode  *Geocodeconfig
	Log      *Loggerconfig
}

type DBconfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	MaxRetries int
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type Serviceconfig struct {
	DispatchServicePort string
}

type Appconfig struct {
	JwtSecret string
}

// Dispatchconfig carries the courier-selection tuning knobs. Defaults match
// the platform contract: candidates within 3 km, at most 5 per round, two
// selection rounds before giving up on a contested claim.
type Dispatchconfig struct {
	SearchRadiusKm float64
	CandidateLimit int
	ClaimRetries   int
}

// Geocodeconfig selects the address-resolution backend. Provider "static"
// serves a seeded in-memory table for local development; "nominatim" talks
// to a Nominatim-compatible endpoint.
type Geocodeconfig struct {
	Provider string
	BaseURL  string
}

type Loggerconfig struct {
	Level string
}

func New(log mylogger.Logger) *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn(".env not loaded", "error", err.Error())
	}

	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			log.Warn("using default value", "key", key, "default", def)
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			log.Warn("using default value", "key", key, "default", def)
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			log.Warn("cannot parse int, using default value", "key", key, "default", def)
			return def
		}
		return val
	}

	getEnvFloat := func(key string, def float64) float64 {
		valStr := os.Getenv(key)
		if valStr == "" {
			log.Warn("using default value", "key", key, "default", def)
			return def
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			log.Warn("cannot parse float, using default value", "key", key, "default", def)
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "quickdrop_user"),
			Password:   getEnv("DB_PASSWORD", "quickdrop_pass"),
			Database:   getEnv("DB_NAME", "quickdrop_db"),
			MaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		Srv: &Serviceconfig{
			DispatchServicePort: getEnv("DISPATCH_SERVICE_PORT", "3000"),
		},
		App: &Appconfig{
			JwtSecret: getEnv("JWT_SECRET", "quickdrop-dev-secret"),
		},
		Dispatch: &Dispatchconfig{
			SearchRadiusKm: getEnvFloat("DISPATCH_SEARCH_RADIUS_KM", 3),
			CandidateLimit: getEnvInt("DISPATCH_CANDIDATE_LIMIT", 5),
			ClaimRetries:   getEnvInt("DISPATCH_CLAIM_RETRIES", 2),
		},
		Geocode: &Geocodeconfig{
			Provider: getEnv("GEOCODE_PROVIDER", "static"),
			BaseURL:  getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	return cnf
}
