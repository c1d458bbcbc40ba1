package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		t.Logf("Version: %s", version)
	}
}

func TestLoadArgs_ProcessCommand(t *testing.T) {
	cfg, err := LoadArgs([]string{"--config", "custom.yaml", "--db", "/tmp/test.db", "--debug", "--timezone", "UTC", "process"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Command != CommandProcess {
		t.Errorf("Expected command 'process', got '%s'", cfg.Command)
	}
	if cfg.ConfigPath != "custom.yaml" {
		t.Errorf("Expected config path 'custom.yaml', got '%s'", cfg.ConfigPath)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected db path '/tmp/test.db', got '%s'", cfg.DBPath)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version == "" {
		t.Error("Expected version to be set")
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadArgs_ServeCommand(t *testing.T) {
	cfg, err := LoadArgs([]string{"--port", "9090", "--api-key", "secret", "serve"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Command != CommandServe {
		t.Errorf("Expected command 'serve', got '%s'", cfg.Command)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.APIAccessKey != "secret" {
		t.Errorf("Expected API key 'secret', got '%s'", cfg.APIAccessKey)
	}
}

func TestLoadArgs_MissingCommand(t *testing.T) {
	if _, err := LoadArgs([]string{"--debug"}); err == nil {
		t.Error("Expected error when no command is given")
	}
}

func TestLoadArgs_UnknownFlag(t *testing.T) {
	if _, err := LoadArgs([]string{"--no-such-flag", "process"}); err == nil {
		t.Error("Expected error for unknown flag")
	}
}
