package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/wonny/capengine/pkg/config"
)

func TestNew_NoURL(t *testing.T) {
	cfg := &config.Config{}

	if _, err := New(cfg); err == nil {
		t.Error("Expected error when DATABASE_URL is empty")
	}
}

func TestNew_BadURL(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{URL: "://not-a-url"},
	}

	if _, err := New(cfg); err == nil {
		t.Error("Expected error for malformed DATABASE_URL")
	}
}

func TestNew(t *testing.T) {
	// Skip if DATABASE_URL is not set
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		t.Errorf("Failed to ping database: %v", err)
	}
}
