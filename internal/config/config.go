// Package config loads the client settings from a YAML file, the
// environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wordgame/wordclient/internal/wire"
)

const (
	EnvPrefix   = "WORDCLIENT"
	DefaultFile = "wordclient.yaml"
)

type Config struct {
	Server   ServerConfig `mapstructure:"server" yaml:"server"`
	Client   ClientConfig `mapstructure:"client" yaml:"client"`
	Player   PlayerConfig `mapstructure:"player" yaml:"player"`
	Log      LogConfig    `mapstructure:"log" yaml:"log"`
	DB       string       `mapstructure:"db" yaml:"db"`
	HTTPAddr string       `mapstructure:"http_addr" yaml:"http_addr"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-" yaml:"-"`
}

// ServerConfig is the game server the client talks to exclusively.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

type ClientConfig struct {
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
}

// PlayerConfig is the identity sent when starting a game.
type PlayerConfig struct {
	ANum      string `mapstructure:"anum" yaml:"anum"`
	LastName  string `mapstructure:"last_name" yaml:"last_name"`
	FirstName string `mapstructure:"first_name" yaml:"first_name"`
	Alias     string `mapstructure:"alias" yaml:"alias"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// File switches logging from stderr to a rotated file.
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 12345,
		},
		Client: ClientConfig{
			ListenAddr: ":0",
		},
		Player: PlayerConfig{
			Alias: "player",
		},
		Log: LogConfig{
			Level:      "warn",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// envFile is loaded into the environment before the config is read. It's
// fine for it not to exist.
var envFile = ".env"

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"host":        "server.host",
	"port":        "server.port",
	"listen-addr": "client.listen_addr",
	"log-level":   "log.level",
	"log-file":    "log.file",
	"db":          "db",
	"http-addr":   "http_addr",
}

// Load reads the configuration from path, or from wordclient.yaml in the
// usual locations when path is empty. A missing file is not an error.
// Environment variables override the file (WORDCLIENT_SERVER_HOST) and flags
// that were set on the command line override both.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v, used, err := newViper(path)
	if err != nil {
		return nil, err
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns a viper instance seeded with the defaults, together with
// the config file it read.
func newViper(path string) (*viper.Viper, string, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("client.listen_addr", cfg.Client.ListenAddr)
	v.SetDefault("player.anum", cfg.Player.ANum)
	v.SetDefault("player.last_name", cfg.Player.LastName)
	v.SetDefault("player.first_name", cfg.Player.FirstName)
	v.SetDefault("player.alias", cfg.Player.Alias)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age_days", cfg.Log.MaxAgeDays)
	v.SetDefault("log.compress", cfg.Log.Compress)
	v.SetDefault("db", cfg.DB)
	v.SetDefault("http_addr", cfg.HTTPAddr)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFile, filepath.Ext(DefaultFile)))
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".wordclient"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return v, "", nil
		}
		return nil, "", fmt.Errorf("read config: %w", err)
	}

	return v, v.ConfigFileUsed(), nil
}

func (c *Config) Validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	if err := c.Server.Validate(); err != nil {
		return err
	}

	for name, value := range map[string]string{
		"player.anum":       c.Player.ANum,
		"player.last_name":  c.Player.LastName,
		"player.first_name": c.Player.FirstName,
		"player.alias":      c.Player.Alias,
	} {
		if 2*len(utf16.Encode([]rune(value))) > wire.MaxTextBytes {
			return fmt.Errorf("%s is too long", name)
		}
	}

	return nil
}

func (s ServerConfig) Validate() error {
	if strings.TrimSpace(s.Host) == "" {
		return errors.New("server.host is empty")
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", s.Port)
	}
	return nil
}

// LogLevel returns the parsed log level. Validate has already checked it.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(c.Log.Level))
	return level
}

// Save writes server to the config file at path, keeping the other settings
// already in it. The file is created when it doesn't exist.
func Save(path string, server ServerConfig) error {
	if err := server.Validate(); err != nil {
		return err
	}
	if path == "" {
		path = DefaultFile
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	v.Set("server.host", server.Host)
	v.Set("server.port", server.Port)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
