package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wonny/capengine/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{
			name: "debug level",
			cfg: &config.Config{
				Env:       "development",
				LogLevel:  "debug",
				LogFormat: "json",
			},
			wantLevel: zerolog.DebugLevel,
		},
		{
			name: "info level",
			cfg: &config.Config{
				Env:       "production",
				LogLevel:  "info",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name: "unknown level falls back to info",
			cfg: &config.Config{
				Env:       "staging",
				LogLevel:  "loud",
				LogFormat: "json",
			},
			wantLevel: zerolog.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.cfg)
			if logger == nil {
				t.Fatal("Expected logger to be created")
			}

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("Expected global level %v, got %v", tt.wantLevel, zerolog.GlobalLevel())
			}
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := NewForWriter(&buf)

	logger.WithFields(map[string]interface{}{
		"symbol": "NVDA",
		"stage":  "ARCHITECT",
	}).Info("candidate ranked")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}

	if entry["symbol"] != "NVDA" {
		t.Errorf("symbol field = %v, want NVDA", entry["symbol"])
	}
	if entry["stage"] != "ARCHITECT" {
		t.Errorf("stage field = %v, want ARCHITECT", entry["stage"])
	}
	if entry["message"] != "candidate ranked" {
		t.Errorf("message = %v, want 'candidate ranked'", entry["message"])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := NewForWriter(&buf)

	logger.WithError(errors.New("fetch failed")).Error("librarian error")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}

	if entry["error"] != "fetch failed" {
		t.Errorf("error field = %v, want 'fetch failed'", entry["error"])
	}
}

func TestWithStage(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := NewForWriter(&buf)

	logger.WithStage("TRADER").Info("plan generated")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}

	if entry["stage"] != "TRADER" {
		t.Errorf("stage field = %v, want TRADER", entry["stage"])
	}
}
