package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"grc-platform/internal/scoring"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string
	LogDebug      bool

	// сортировка GET /controls, если в запросе её нет
	DefaultControlSort scoring.SortCriterion

	AdminUsername string
	AdminPassword string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin@grc.local"
	}

	if v := os.Getenv("LOG_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("LOG_DEBUG must be a boolean")
		}
		cfg.LogDebug = debug
	}

	cfg.DefaultControlSort = scoring.SortRiskScoreDesc
	if v := os.Getenv("DEFAULT_CONTROL_SORT"); v != "" {
		sortBy, err := scoring.ParseSortCriterion(v)
		if err != nil {
			return nil, errors.New("DEFAULT_CONTROL_SORT: " + err.Error())
		}
		cfg.DefaultControlSort = sortBy
	}

	return cfg, nil
}
