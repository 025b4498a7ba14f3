package config

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Review   ReviewConfig   `mapstructure:"review"`
	Watch    WatchConfig    `mapstructure:"watch"`
	UI       UIConfig       `mapstructure:"ui"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type ReviewConfig struct {
	BatchLimit          int         `mapstructure:"batch_limit" validate:"min=1,max=50"`
	ContextualFetch     int         `mapstructure:"contextual_fetch" validate:"min=1,max=20"`
	DistractorCount     int         `mapstructure:"distractor_count" validate:"min=1,max=10"`
	StageTimeoutSeconds map[int]int `mapstructure:"stage_timeout_seconds" validate:"stage_timeouts"`
}

type WatchConfig struct {
	FewDueThreshold     int `mapstructure:"few_due_threshold" validate:"min=0"`
	FewDueMinutes       int `mapstructure:"few_due_minutes" validate:"min=1"`
	ManyDueMinutes      int `mapstructure:"many_due_minutes" validate:"min=1"`
	MinIdleMinutes      int `mapstructure:"min_idle_minutes" validate:"min=1"`
	MaxIdleMinutes      int `mapstructure:"max_idle_minutes" validate:"min=1"`
	RetryBackoffSeconds int `mapstructure:"retry_backoff_seconds" validate:"min=1"`
}

type UIConfig struct {
	Sound     bool `mapstructure:"sound"`
	AutoPopup bool `mapstructure:"auto_popup"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/drip")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("database.path", "drip.db")
	v.SetDefault("review.batch_limit", 5)
	v.SetDefault("review.contextual_fetch", 5)
	v.SetDefault("review.distractor_count", 3)
	v.SetDefault("review.stage_timeout_seconds", map[int]int{1: 20, 2: 30, 3: 20, 4: 30})
	v.SetDefault("watch.few_due_threshold", 5)
	v.SetDefault("watch.few_due_minutes", 5)
	v.SetDefault("watch.many_due_minutes", 3)
	v.SetDefault("watch.min_idle_minutes", 5)
	v.SetDefault("watch.max_idle_minutes", 60)
	v.SetDefault("watch.retry_backoff_seconds", 30)
	v.SetDefault("ui.sound", true)
	v.SetDefault("ui.auto_popup", true)

	// Bind the database path to an environment variable so the store can be
	// relocated without editing the config file.
	if err := v.BindEnv("database.path", "DRIP_DB_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind DRIP_DB_PATH environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
