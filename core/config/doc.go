// Package config provides type-safe environment variable loading with
// per-type caching. Each configuration struct type is parsed once per
// process; later calls return the cached value, so every component observes
// identical configuration.
//
// A .env file in the working directory is loaded automatically before the
// first parse. Parsing uses caarlos0/env struct tags:
//
//	type SessionConfig struct {
//		DBPath   string        `env:"SESSION_DB_PATH" envDefault:"sessions.db"`
//		Lifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
//	}
//
//	var cfg SessionConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// MustLoad panics on failure and is intended for startup wiring.
package config
