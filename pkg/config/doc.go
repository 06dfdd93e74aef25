// Package config loads typed configuration structs from environment
// variables, with an optional .env file for local development.
//
// Each struct type is parsed once per process and cached, so independent
// components loading the same configuration type always agree. Field mapping
// uses github.com/caarlos0/env struct tags:
//
//	type APIConfig struct {
//		BaseURL string        `env:"NUTRI_API_URL" envDefault:"http://localhost:8000/api"`
//		Timeout time.Duration `env:"NUTRI_HTTP_TIMEOUT" envDefault:"10s"`
//	}
//
//	var cfg APIConfig
//	config.MustLoad(&cfg)
package config
