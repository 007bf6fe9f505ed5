package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Env                string  `mapstructure:"ENV"`
	LogLevel           string  `mapstructure:"LOG_LEVEL"`
	LogFile            string  `mapstructure:"LOG_FILE"`
	LogMaxSizeMB       int     `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups      int     `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays      int     `mapstructure:"LOG_MAX_AGE_DAYS"`
	DataDir            string  `mapstructure:"DATA_DIR"`
	ConditionsFile     string  `mapstructure:"CONDITIONS_FILE"`
	MedicinesFile      string  `mapstructure:"MEDICINES_FILE"`
	BasketFile         string  `mapstructure:"BASKET_FILE"`
	LookupWorkbook     string  `mapstructure:"LOOKUP_WORKBOOK"`
	OutputDir          string  `mapstructure:"OUTPUT_DIR"`
	AppName            string  `mapstructure:"APP_NAME"`
	MaxAttachments     int     `mapstructure:"MAX_ATTACHMENTS"`
	MaxAttachmentBytes int64   `mapstructure:"MAX_ATTACHMENT_BYTES"`
	DecodeWorkers      int     `mapstructure:"DECODE_WORKERS"`
	PageSize           string  `mapstructure:"PAGE_SIZE"`
	PageMargin         float64 `mapstructure:"PAGE_MARGIN"`
}

// PageSizes lists the page formats the document writer accepts.
var PageSizes = map[string]bool{
	"A3":     true,
	"A4":     true,
	"A5":     true,
	"Letter": true,
	"Legal":  true,
}

var keys = []string{
	"ENV",
	"LOG_LEVEL",
	"LOG_FILE",
	"LOG_MAX_SIZE_MB",
	"LOG_MAX_BACKUPS",
	"LOG_MAX_AGE_DAYS",
	"DATA_DIR",
	"CONDITIONS_FILE",
	"MEDICINES_FILE",
	"BASKET_FILE",
	"LOOKUP_WORKBOOK",
	"OUTPUT_DIR",
	"APP_NAME",
	"MAX_ATTACHMENTS",
	"MAX_ATTACHMENT_BYTES",
	"DECODE_WORKERS",
	"PAGE_SIZE",
	"PAGE_MARGIN",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_MAX_SIZE_MB", 10)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("CONDITIONS_FILE", "Chronic Conditions.csv")
	v.SetDefault("MEDICINES_FILE", "Medicine List.csv")
	v.SetDefault("BASKET_FILE", "Treatment Basket.csv")
	v.SetDefault("OUTPUT_DIR", ".")
	v.SetDefault("APP_NAME", "SaluLink Chronic Treatment App")
	v.SetDefault("MAX_ATTACHMENTS", 10)
	v.SetDefault("MAX_ATTACHMENT_BYTES", 50*1024*1024)
	v.SetDefault("DECODE_WORKERS", 4)
	v.SetDefault("PAGE_SIZE", "A4")
	v.SetDefault("PAGE_MARGIN", 20)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Level returns the parsed zerolog level, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// LookupPaths returns the three lookup table paths resolved against DataDir.
func (c *Config) LookupPaths() (conditions, medicines, basket string) {
	return filepath.Join(c.DataDir, c.ConditionsFile),
		filepath.Join(c.DataDir, c.MedicinesFile),
		filepath.Join(c.DataDir, c.BasketFile)
}

// Validate checks that the configuration can drive an export.
func (c *Config) Validate() error {
	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
			return fmt.Errorf("LOG_LEVEL %q is not a valid level: %w", c.LogLevel, err)
		}
	}
	if c.DecodeWorkers < 1 {
		return fmt.Errorf("DECODE_WORKERS must be at least 1, got %d", c.DecodeWorkers)
	}
	if c.MaxAttachments < 1 {
		return fmt.Errorf("MAX_ATTACHMENTS must be at least 1, got %d", c.MaxAttachments)
	}
	if c.MaxAttachmentBytes <= 0 {
		return fmt.Errorf("MAX_ATTACHMENT_BYTES must be positive, got %d", c.MaxAttachmentBytes)
	}
	if !PageSizes[c.PageSize] {
		return fmt.Errorf("PAGE_SIZE must be one of A3, A4, A5, Letter, Legal, got %q", c.PageSize)
	}
	if c.PageMargin <= 0 {
		return fmt.Errorf("PAGE_MARGIN must be positive, got %v", c.PageMargin)
	}
	if c.LogFile != "" && c.LogMaxSizeMB <= 0 {
		return fmt.Errorf("LOG_MAX_SIZE_MB must be positive when LOG_FILE is set")
	}
	return nil
}
