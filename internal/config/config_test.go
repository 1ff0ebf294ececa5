package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load on missing file = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("Load must create the config file with defaults")
	}
}

func TestLoadSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)

	cfg := Default()
	cfg.SessionTimeoutSeconds = 60
	cfg.DefaultPasswordLength = 24
	cfg.StoragePath = "/tmp/custom.db"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != cfg {
		t.Errorf("Load = %+v, want %+v", got, cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte(`{"session_timeout_seconds": 120}`), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SessionTimeoutSeconds != 120 {
		t.Errorf("SessionTimeoutSeconds = %d, want 120", cfg.SessionTimeoutSeconds)
	}
	if cfg.DefaultPasswordLength != Default().DefaultPasswordLength {
		t.Error("unset keys must keep their defaults")
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err == nil {
		t.Fatal("expected error for corrupt config")
	}
	if cfg != Default() {
		t.Error("corrupt config must fall back to defaults")
	}
}

func TestGeneratorConfig(t *testing.T) {
	cfg := Default()
	cfg.DefaultPasswordLength = 20
	cfg.DefaultUseSymbols = false

	gen := cfg.GeneratorConfig()
	if gen.Length != 20 || gen.UseSymbols {
		t.Errorf("GeneratorConfig = %+v, want length 20 without symbols", gen)
	}
}
