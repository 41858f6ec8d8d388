// Package config loads opustran settings from an optional config file, the
// environment, and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/valpere/opustran/internal/engine"
)

const EnvPrefix = "OPUSTRAN"

type Config struct {
	Runtime   RuntimeConfig   `mapstructure:"runtime"`
	Translate TranslateConfig `mapstructure:"translate"`
	DB        DBConfig        `mapstructure:"db"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

type RuntimeConfig struct {
	engine.RuntimeConfig `mapstructure:",squash"`
	Namespace            string `mapstructure:"namespace" validate:"required"`
}

type TranslateConfig struct {
	ProtectMarkup bool `mapstructure:"protect_markup"`
	CheckOutput   bool `mapstructure:"check_output"`
}

type DBConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type LogConfig struct {
	Env string `mapstructure:"env" validate:"oneof=development production"`
}

var validate = validator.New()

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("runtime.hub_url", engine.DefaultHubURL)
	v.SetDefault("runtime.inference_url", engine.DefaultInferenceURL)
	v.SetDefault("runtime.token", "")
	v.SetDefault("runtime.namespace", "Helsinki-NLP/opus-mt")
	v.SetDefault("runtime.timeout", time.Duration(0))
	v.SetDefault("translate.protect_markup", false)
	v.SetDefault("translate.check_output", false)
	v.SetDefault("db.enabled", true)
	v.SetDefault("db.path", filepath.Join(".", "data", "opustran.db"))
	v.SetDefault("server.addr", ":8501")
	v.SetDefault("log.env", "production")
}

// Load reads configuration into a Config. configFile may be empty, in which
// case opustran.yaml is looked up in the working directory and
// $HOME/.config/opustran; a missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("runtime.token", EnvPrefix+"_RUNTIME_TOKEN", "HF_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind HF_TOKEN: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("opustran")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "opustran"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validation failed: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("Field: %s, Tag: %s, Param: %s", e.Namespace(), e.Tag(), e.Param()))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}
