package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server != "http://localhost:5000" {
		t.Errorf("Server = %q, want %q", cfg.Server, "http://localhost:5000")
	}
	if cfg.Output != "table" {
		t.Errorf("Output = %q, want %q", cfg.Output, "table")
	}
	if cfg.LinkBase() != cfg.Server {
		t.Errorf("LinkBase() = %q, want Server when BaseURL is empty", cfg.LinkBase())
	}
}

func TestLinkBase(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "https://files.example.com"
	if cfg.LinkBase() != "https://files.example.com" {
		t.Errorf("LinkBase() = %q", cfg.LinkBase())
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if !strings.HasSuffix(path, filepath.Join(".linkdrop", "cli.yaml")) {
		t.Errorf("DefaultConfigPath() = %q, want .linkdrop/cli.yaml suffix", path)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load should not error for nonexistent file: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := "server: http://links.internal:5000\nbase_url: https://files.example.com\noutput: json\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server != "http://links.internal:5000" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if cfg.BaseURL != "https://files.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q", cfg.Output)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("output: yaml\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server != Default().Server {
		t.Errorf("Server = %q, want default", cfg.Server)
	}
	if cfg.Output != "yaml" {
		t.Errorf("Output = %q, want yaml", cfg.Output)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cli.yaml")

	cfg := Default()
	cfg.BaseURL = "https://files.example.com"
	cfg.ServerConfig = "/etc/linkdrop/linkdrop.yaml"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("Load() = %+v, want %+v", got, cfg)
	}
}

func TestMerge(t *testing.T) {
	base := Default()

	env := map[string]string{
		EnvServer: "http://env:5000",
		EnvOutput: "json",
	}
	flags := map[string]string{
		"output": "yaml",
		"config": "/tmp/linkdrop.yaml",
		"server": "",
	}

	got := Merge(base, env, flags)

	if got.Server != "http://env:5000" {
		t.Errorf("Server = %q, want env value", got.Server)
	}
	if got.Output != "yaml" {
		t.Errorf("Output = %q, want flag to win over env", got.Output)
	}
	if got.ServerConfig != "/tmp/linkdrop.yaml" {
		t.Errorf("ServerConfig = %q", got.ServerConfig)
	}
	if base.Output != "table" {
		t.Error("Merge() must not modify its input")
	}
}

func TestEnviron(t *testing.T) {
	t.Setenv(EnvServer, "http://from-env:5000")

	env := Environ()
	if env[EnvServer] != "http://from-env:5000" {
		t.Errorf("Environ()[%s] = %q", EnvServer, env[EnvServer])
	}
}
