package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("PAGE_SIZE")
	os.Unsetenv("DECODE_WORKERS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.PageSize != "A4" {
		t.Errorf("expected default page size A4, got %s", cfg.PageSize)
	}
	if cfg.PageMargin != 20 {
		t.Errorf("expected default margin 20, got %v", cfg.PageMargin)
	}
	if cfg.MaxAttachments != 10 {
		t.Errorf("expected default max attachments 10, got %d", cfg.MaxAttachments)
	}
	if cfg.DecodeWorkers != 4 {
		t.Errorf("expected default decode workers 4, got %d", cfg.DecodeWorkers)
	}
	if cfg.AppName != "SaluLink Chronic Treatment App" {
		t.Errorf("unexpected app name %q", cfg.AppName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	os.Setenv("PAGE_SIZE", "Letter")
	os.Setenv("DECODE_WORKERS", "2")
	defer os.Unsetenv("PAGE_SIZE")
	defer os.Unsetenv("DECODE_WORKERS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PageSize != "Letter" {
		t.Errorf("expected PAGE_SIZE=Letter, got %s", cfg.PageSize)
	}
	if cfg.DecodeWorkers != 2 {
		t.Errorf("expected DECODE_WORKERS=2, got %d", cfg.DecodeWorkers)
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		c := &Config{LogLevel: tt.in}
		if got := c.Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfig_LookupPaths(t *testing.T) {
	c := &Config{
		DataDir:        "data",
		ConditionsFile: "c.csv",
		MedicinesFile:  "m.csv",
		BasketFile:     "b.csv",
	}
	cond, med, basket := c.LookupPaths()
	if cond != filepath.Join("data", "c.csv") {
		t.Errorf("unexpected conditions path %s", cond)
	}
	if med != filepath.Join("data", "m.csv") {
		t.Errorf("unexpected medicines path %s", med)
	}
	if basket != filepath.Join("data", "b.csv") {
		t.Errorf("unexpected basket path %s", basket)
	}
}

func validConfig() *Config {
	return &Config{
		LogLevel:           "info",
		DecodeWorkers:      4,
		MaxAttachments:     10,
		MaxAttachmentBytes: 1024,
		PageSize:           "A4",
		PageMargin:         20,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"zero workers", func(c *Config) { c.DecodeWorkers = 0 }, true},
		{"zero attachments", func(c *Config) { c.MaxAttachments = 0 }, true},
		{"zero bytes", func(c *Config) { c.MaxAttachmentBytes = 0 }, true},
		{"unknown page", func(c *Config) { c.PageSize = "B5" }, true},
		{"zero margin", func(c *Config) { c.PageMargin = 0 }, true},
		{"log file without size", func(c *Config) { c.LogFile = "x.log" }, true},
		{"log file with size", func(c *Config) { c.LogFile = "x.log"; c.LogMaxSizeMB = 5 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
