package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNotPointer is returned when Load receives a nil pointer.
var ErrNotPointer = errors.New("config target must be a non-nil pointer")

var (
	dotenvOnce sync.Once

	mu    sync.Mutex
	cache = make(map[reflect.Type]any)
)

// Load parses environment variables into cfg. The first call loads a .env file from the
// working directory if one exists. Each type is parsed once; later calls copy the cached value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNotPointer
	}

	dotenvOnce.Do(func() {
		// a missing .env file is not an error
		_ = godotenv.Load()
	})

	typ := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[typ]; ok {
		*cfg = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return fmt.Errorf("failed to parse %s config: %w", typ, err)
	}
	cache[typ] = parsed
	*cfg = parsed
	return nil
}

// MustLoad is like Load but panics on failure. Use it at startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// Reset drops every cached configuration. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cache = make(map[reflect.Type]any)
}
