package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	RepositoryMemory   = "memory"
	RepositoryPostgres = "postgres"
)

type Config struct {
	AppEnv      string
	Host        string
	Port        string
	ServiceName string

	// Repository selects the listing backend: memory (fixtures) or
	// postgres (managed store via DATABASE_URL).
	Repository  string
	DatabaseURL string

	CORSOrigins []string
	RedisAddr   string
	NATSURL     string
	NATSSubject string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      appEnv(),
		Host:        getEnv("HOST", ""),
		Port:        getEnv("PORT", "8080"),
		ServiceName: getEnv("SERVICE_NAME", "mercado-api"),
		Repository:  strings.ToLower(getEnv("LISTINGS_REPOSITORY", RepositoryMemory)),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		NATSURL:     strings.TrimSpace(os.Getenv("NATS_URL")),
		NATSSubject: strings.TrimSpace(os.Getenv("NATS_SUBJECT")),
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	switch cfg.AppEnv {
	case "development", "test", "production":
	default:
		return nil, fmt.Errorf("config: unknown APP_ENV %q", cfg.AppEnv)
	}

	switch cfg.Repository {
	case RepositoryMemory:
	case RepositoryPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("config: DATABASE_URL is required when LISTINGS_REPOSITORY=%s", RepositoryPostgres)
		}
	default:
		return nil, fmt.Errorf("config: unknown LISTINGS_REPOSITORY %q", cfg.Repository)
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func appEnv() string {
	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = strings.TrimSpace(os.Getenv("NODE_ENV"))
	}
	if env == "" {
		env = "development"
	}
	return strings.ToLower(env)
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
