package config

import (
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	Addr        string
	DataDir     string
	BaseURL     string
	CurrentUser string
	Development bool
}

func Load() Config {
	return Config{
		Addr:        getenv("SEALTRACK_API_ADDR", ":8080"),
		DataDir:     getenv("SEALTRACK_DATA_DIR", filepath.Join(".", "local-data")),
		BaseURL:     getenv("SEALTRACK_BASE_URL", ""),
		CurrentUser: getenv("SEALTRACK_CURRENT_USER", ""),
		Development: getenvBool("SEALTRACK_DEV", false),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
