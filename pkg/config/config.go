// Package config loads per-package configuration structs from environment
// variables, with an optional .env file for development.
//
// Every signalkit package that needs settings declares its own Config struct
// with `env` tags (see kv.Config, quota.Config, billing.StripeConfig); this
// package only does the parsing.
//
//	var cfg quota.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilPointer is returned when a nil pointer is passed to Load.
	ErrNilPointer = errors.New("nil pointer provided to config loader")

	// ErrParsingConfig wraps env parsing failures (missing required
	// variables, malformed values).
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
)

var defaultEnvLoaded sync.Once

// Load populates the configuration struct from environment variables.
// The default .env file, if present, is loaded exactly once per process
// before the first parse; a missing file is not an error.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Intended for configuration
// the service cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
