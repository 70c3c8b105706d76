package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.Server.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q, want :8080", cfg.Server.GRPCAddr)
	}
	if cfg.Database.MaxConns != 20 || cfg.Database.MinConns != 5 {
		t.Errorf("pool sizing = %d/%d, want 20/5", cfg.Database.MaxConns, cfg.Database.MinConns)
	}
	if cfg.Parse.MinConfidence != 0.60 {
		t.Errorf("MinConfidence = %v, want 0.60", cfg.Parse.MinConfidence)
	}
	if cfg.Ingest.ProcessTimeout != 3*time.Minute {
		t.Errorf("ProcessTimeout = %v, want 3m", cfg.Ingest.ProcessTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/receipts")
	t.Setenv("OCR_DPI", "150")
	t.Setenv("PARSE_MIN_CONFIDENCE", "0.8")
	t.Setenv("WATCH_ROOTS", "/in/a, /in/b ,")

	cfg := LoadConfig()
	if cfg.Database.DSN != "postgres://localhost/receipts" {
		t.Errorf("DSN not read from env: %q", cfg.Database.DSN)
	}
	if cfg.OCR.DPI != 150 {
		t.Errorf("DPI = %d, want 150", cfg.OCR.DPI)
	}
	if cfg.Parse.MinConfidence != 0.8 {
		t.Errorf("MinConfidence = %v, want 0.8", cfg.Parse.MinConfidence)
	}
	if len(cfg.Ingest.WatchRoots) != 2 || cfg.Ingest.WatchRoots[1] != "/in/b" {
		t.Errorf("WatchRoots = %v, want [/in/a /in/b]", cfg.Ingest.WatchRoots)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/receipts")
	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg.Database.DSN = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing DSN must fail validation")
	}

	cfg.Database.DSN = "x"
	cfg.Parse.MinConfidence = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("out-of-range confidence must fail validation")
	}
}
