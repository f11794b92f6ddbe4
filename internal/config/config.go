package config

import (
	"fmt"
	"os"
)

type Config struct {
	Env          string
	ListenAddr   string
	DatabaseURL  string
	Workers      int
	StorageDir   string
	TikaURL      string
	AIAPIKey     string
	AIBaseURL    string
	AIModel      string
	MaxInputLen  int
	PollInterval int // milliseconds
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() (Config, error) {
	cfg := Config{
		Env:          getenv("APP_ENV", "development"),
		ListenAddr:   getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Workers:      getenvInt("DPR_WORKERS", 2),
		StorageDir:   getenv("STORAGE_DIR", "upload-dir"),
		TikaURL:      getenv("TIKA_URL", "http://localhost:9998"),
		AIAPIKey:     os.Getenv("AI_API_KEY"),
		AIBaseURL:    getenv("AI_API_URL", ""),
		AIModel:      getenv("AI_MODEL", ""),
		MaxInputLen:  getenvInt("AI_MAX_INPUT_CHARS", 0),
		PollInterval: getenvInt("POLL_INTERVAL_MS", 500),
	}
	if cfg.DatabaseURL == "" {
		// Not fatal for early local runs; warn via error value so callers can decide.
		return cfg, fmt.Errorf("DATABASE_URL not set")
	}
	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}
