package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "wordclient.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if err != nil {
		t.Fatal(err)
	}

	def := Default()
	if cfg.Server != def.Server || cfg.Client != def.Client || cfg.Log.Level != def.Log.Level {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.File != "" {
		t.Fatalf("expected no config file, got %q", cfg.File)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
server:
  host: game.example.com
  port: 4000
player:
  anum: A01234567
  last_name: Doe
  first_name: Jane
  alias: jd
log:
  level: debug
db: rounds.db
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Host != "game.example.com" || cfg.Server.Port != 4000 {
		t.Fatalf("unexpected server: %+v", cfg.Server)
	}
	if cfg.Player != (PlayerConfig{ANum: "A01234567", LastName: "Doe", FirstName: "Jane", Alias: "jd"}) {
		t.Fatalf("unexpected player: %+v", cfg.Player)
	}
	if cfg.DB != "rounds.db" || cfg.Log.Level != "debug" || cfg.File != path {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Client.ListenAddr != ":0" {
		t.Fatalf("expected default listen address, got %q", cfg.Client.ListenAddr)
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	path := writeFile(t, "server:\n  host: file.example.com\n  port: 4000\n")
	t.Setenv("WORDCLIENT_SERVER_HOST", "env.example.com")
	t.Setenv("WORDCLIENT_PLAYER_ALIAS", "envalias")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--port", "5000"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Host != "env.example.com" {
		t.Fatalf("expected host from env, got %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 5000 {
		t.Fatalf("expected port from flag, got %d", cfg.Server.Port)
	}
	if cfg.Player.Alias != "envalias" {
		t.Fatalf("expected alias from env, got %q", cfg.Player.Alias)
	}
	// unchanged flags don't override defaults
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected default log level, got %q", cfg.Log.Level)
	}
}

func TestLoadBadEnvFile(t *testing.T) {
	prev := envFile
	t.Cleanup(func() { envFile = prev })

	envFile = filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("WORDCLIENT-SERVER=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatal("expected an error for a malformed .env file")
	}

	envFile = filepath.Join(t.TempDir(), ".env")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err != nil {
		t.Fatal(err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"empty host", func(c *Config) { c.Server.Host = " " }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"alias too long", func(c *Config) { c.Player.Alias = string(make([]rune, 20000)) }},
	}

	for _, test := range tests {
		cfg := Default()
		test.modify(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected an error", test.name)
		}
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
}

func TestSave(t *testing.T) {
	path := writeFile(t, "player:\n  alias: jd\nserver:\n  host: old.example.com\n  port: 1000\n")

	if err := Save(path, ServerConfig{Host: "new.example.com", Port: 2000}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "new.example.com" || cfg.Server.Port != 2000 {
		t.Fatalf("unexpected server: %+v", cfg.Server)
	}
	if cfg.Player.Alias != "jd" {
		t.Fatalf("other settings were lost: %+v", cfg.Player)
	}
}

func TestSaveNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wordclient.yaml")

	if err := Save(path, ServerConfig{Host: "127.0.0.1", Port: 3000}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 3000 {
		t.Fatalf("unexpected server: %+v", cfg.Server)
	}

	if err := Save(path, ServerConfig{Host: "127.0.0.1", Port: -1}); err == nil {
		t.Fatal("expected an error for an invalid port")
	}
}
