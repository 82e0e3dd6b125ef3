package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Load parses environment variables into the provided struct.
// The struct should use `env` tags to define mappings.
//
// Example:
//
//	type Config struct {
//	    Port        int      `env:"HTTP_PORT" envDefault:"8080"`
//	    LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
//	    AdminEmails []string `env:"ADMIN_ALLOWED_EMAILS" envSeparator:","`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// LoadWithDotenv loads the given dotenv files (default ".env") into the
// process environment before parsing. A missing dotenv file is not an
// error; already-set environment variables are never overridden.
func LoadWithDotenv(cfg any, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load dotenv %s: %w", f, err)
		}
	}
	return Load(cfg)
}
