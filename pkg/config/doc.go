// Package config loads typed configuration from environment variables.
//
// Structs are annotated with github.com/caarlos0/env/v11 tags. Load reads an
// optional .env file through github.com/joho/godotenv, parses the struct and
// caches it by type, so every package asking for the same struct sees the
// same values. Parse skips the cache, ResetCache clears it between tests.
//
//	type Config struct {
//	    APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
//	    Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
