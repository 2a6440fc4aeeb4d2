package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"mailveil/internal/credential"
)

// Store backends selectable via config.
const (
	BackendFile          = "file"
	BackendFileEncrypted = "file-encrypted"
	BackendRedis         = "redis"
	BackendMemory        = "memory"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home    string `mapstructure:"home"`    // state directory, e.g. $HOME/.mailveil
	Backend string `mapstructure:"backend"` // file | file-encrypted | redis | memory

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		Prefix   string `mapstructure:"prefix"`
	} `mapstructure:"redis"`

	Breach struct {
		URL     string        `mapstructure:"url"` // empty disables checking
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"breach"`

	PasswordLength int    `mapstructure:"password_length"`
	IDLength       int    `mapstructure:"id_length"`
	Listen         string `mapstructure:"listen"` // mailveild bind address
	LogLevel       string `mapstructure:"log_level"`

	// Passphrase for the encrypted backend. Never read from the config
	// file; it arrives via flag, env, or prompt.
	Passphrase string `mapstructure:"-"`
}

// LoadConfig reads mailveil.yaml from the user config dir or the current
// directory, then applies MAILVEIL_* environment overrides. A missing file
// is fine; defaults cover everything.
func LoadConfig(explicitFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("backend", BackendFile)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.prefix", "mailveil:")
	v.SetDefault("breach.timeout", 10*time.Second)
	v.SetDefault("password_length", credential.DefaultPasswordLength)
	v.SetDefault("id_length", credential.DefaultIDLength)
	v.SetDefault("listen", "127.0.0.1:8743")
	v.SetDefault("log_level", "info")

	v.SetConfigName("mailveil")
	v.SetConfigType("yaml")
	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(userConfigDir, "mailveil"))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("mailveil")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		cfg.Home = filepath.Join(home, ".mailveil")
	}
	return cfg, nil
}
