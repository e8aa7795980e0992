package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fridgeseal/sealtrack/internal/blob"
	"github.com/fridgeseal/sealtrack/internal/config"
	"github.com/fridgeseal/sealtrack/internal/httpapi"
	"github.com/fridgeseal/sealtrack/internal/seed"
	"github.com/fridgeseal/sealtrack/internal/storage"
	"github.com/fridgeseal/sealtrack/internal/store"
)

func main() {
	loadDotEnv()
	cfg := config.Load()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("mkdir data dir: %v", err)
	}

	logger, err := newLogger(cfg.Development)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := storage.Open(filepath.Join(cfg.DataDir, "sealtrack.db"))
	if err != nil {
		logger.Fatal("open snapshot store", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	entities, err := seed.Ensure(ctx, db)
	if err != nil {
		logger.Fatal("load or seed snapshot", zap.Error(err))
	}
	logger.Info("snapshot ready",
		zap.Int("jobs", len(entities.Jobs)),
		zap.Int("customers", len(entities.Customers)),
	)

	entityStore := store.New(db, entities, logger)
	if cfg.CurrentUser != "" {
		entityStore.SetCurrentUser(cfg.CurrentUser)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		addr := cfg.Addr
		if strings.HasPrefix(addr, ":") {
			addr = "localhost" + addr
		}
		baseURL = fmt.Sprintf("http://%s", addr)
	}

	server := httpapi.Server{
		Store:   entityStore,
		Blobs:   blob.LocalFS{Root: cfg.DataDir},
		BaseURL: baseURL,
		Log:     logger,
	}

	logger.Info("API listening", zap.String("addr", cfg.Addr), zap.String("baseURL", baseURL))
	if err := http.ListenAndServe(cfg.Addr, server.Router()); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
