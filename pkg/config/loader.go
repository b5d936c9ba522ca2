package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache stores one parsed value per configuration type.
type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	loaded = &cache{values: make(map[reflect.Type]any)}

	defaultEnvLoaded sync.Once
)

// LoadEnv reads the given .env files into the process environment without
// overriding variables that are already set. With no paths it reads ./.env.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv is like LoadEnv but panics on error.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(err)
	}
}

// Load fills v from the environment. The default .env file is read once if
// present. Each configuration type is parsed only once per process; later
// calls receive a copy of the cached value.
//
//	type RedisConfig struct {
//		URL string `env:"REDIS_URL,required"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvLoaded.Do(func() {
		// The file is optional.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()

	loaded.mu.Lock()
	defer loaded.mu.Unlock()

	if cached, ok := loaded.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := Parse(v); err != nil {
		return err
	}
	loaded.values[key] = *v
	return nil
}

// MustLoad is like Load but panics on error. Use it for settings the program
// cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Parse fills v from the current environment, bypassing the cache.
func Parse[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// ResetCache forgets every loaded configuration. Intended for tests.
func ResetCache() {
	loaded.mu.Lock()
	defer loaded.mu.Unlock()
	clear(loaded.values)
}
