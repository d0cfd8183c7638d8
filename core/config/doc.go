// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/navigator/core/config"
//
//	type NavigationConfig struct {
//		UsingHash  bool   `env:"NAV_USING_HASH" envDefault:"true"`
//		StartRoute string `env:"NAV_START_ROUTE" envDefault:"/app/home"`
//		ErrorRoute string `env:"NAV_ERROR_ROUTE,required"`
//	}
//
//	func main() {
//		var nav NavigationConfig
//
//		// Load with error handling
//		if err := config.Load(&nav); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&nav)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime (Reset clears the
// cache in tests):
//
//	var cfg1 NavigationConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 NavigationConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently:
//
//	type LogConfig struct {
//		Level string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	type RedisConfig struct {
//		URL string `env:"REDIS_URL,required"`
//	}
//
//	// Each type has its own cache entry
//	config.MustLoad(&LogConfig{})
//	config.MustLoad(&RedisConfig{})
package config
