package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilPointer is returned when Load receives a nil destination.
var ErrNilPointer = errors.New("config: nil pointer provided")

var defaultEnvLoaded sync.Once

// Load populates cfg from environment variables based on `env` field tags.
// The default .env file is loaded once per process before the first parse;
// a missing .env file is not an error.
func Load[T any](cfg *T) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})

	if cfg == nil {
		return ErrNilPointer
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse environment: %w", err)
	}
	return nil
}

// MustLoad is Load but panics on failure. Intended for wiring code where a
// bad environment should prevent startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
