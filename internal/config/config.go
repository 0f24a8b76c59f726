package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Outputs  OutputsConfig  `mapstructure:"outputs"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type EngineConfig struct {
	WindowDays          int `mapstructure:"window_days" validate:"omitempty,gte=1"`
	QueryTimeoutSeconds int `mapstructure:"query_timeout_seconds" validate:"omitempty,gte=1"`
}

// PlannerConfig exposes the scheduling heuristics that deployments most often
// tune. Zero values keep the planner defaults.
type PlannerConfig struct {
	DailyLoadCeiling       float64 `mapstructure:"daily_load_ceiling" validate:"omitempty,gt=0,lte=100"`
	LoadNormalizationHours float64 `mapstructure:"load_normalization_hours" validate:"omitempty,gt=0"`
}

type OutputsConfig struct {
	// PlanDirectory receives exported plan markdown and PDF files.
	PlanDirectory string `mapstructure:"plan_directory"`

	// PlanTemplate is an optional markdown file prepended to plan exports.
	PlanTemplate string `mapstructure:"plan_template" validate:"omitempty,file"`
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
		v.AddConfigPath("$HOME/.config/studyloop")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "studyloop")
	v.SetDefault("database.username", "studyloop")
	v.SetDefault("engine.window_days", 30)
	v.SetDefault("engine.query_timeout_seconds", 10)
	v.SetDefault("outputs.plan_directory", filepath.Join("outputs", "plans"))

	// Bind the database password to an environment variable only (not from
	// the config file)
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
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
