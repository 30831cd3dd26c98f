package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("APPDATA", t.TempDir())

	cfg := DefaultConfig()
	cfg.Establishment.Name = "Club Central"
	cfg.Establishment.ReviewURL = "https://club.test/review"
	cfg.Server.AgentKey = "shared-secret"
	cfg.FirstRun = false

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Establishment.Name != "Club Central" {
		t.Errorf("establishment name = %q", loaded.Establishment.Name)
	}
	if loaded.Server.AgentKey != "shared-secret" {
		t.Errorf("agent key = %q, expected decrypted value", loaded.Server.AgentKey)
	}
	if loaded.Server.WSPort != 8093 || loaded.Printing.PaperWidth != 80 {
		t.Errorf("defaults lost: %+v", loaded)
	}
}

func TestAgentKeyEncryptedOnDisk(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APPDATA", dir)

	cfg := DefaultConfig()
	cfg.Server.AgentKey = "shared-secret"
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "CourtPrint", "config.json"))
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	var onDisk map[string]json.RawMessage
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("config file is not json: %v", err)
	}
	if bytes.Contains(raw, []byte("shared-secret")) {
		t.Error("agent key stored in plaintext")
	}
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	t.Setenv("APPDATA", t.TempDir())

	cfg, err := LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if !cfg.FirstRun {
		t.Error("fresh config must flag first run")
	}
	if cfg.Printing.TimeoutSeconds != 10 {
		t.Errorf("timeout default = %d", cfg.Printing.TimeoutSeconds)
	}

	if _, err := LoadConfig(); err != nil {
		t.Fatalf("defaults were not persisted: %v", err)
	}
}
