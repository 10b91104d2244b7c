package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret  string `yaml:"jwtSecret"`
		AdminEmail string `yaml:"adminEmail"`
	} `yaml:"auth"`
	Analytics struct {
		TeamSize  int    `yaml:"teamSize"`
		ReportTTL string `yaml:"reportTTL"`
	} `yaml:"analytics"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path, then applies environment overrides and
// defaults. A missing file is fine; env vars and defaults carry it.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	overrideString(&cfg.Server.Port, "PORT")
	overrideString(&cfg.Mongo.URI, "MONGO_URI")
	overrideString(&cfg.Mongo.Database, "MONGO_DATABASE")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	overrideString(&cfg.Auth.AdminEmail, "ADMIN_EMAIL")

	defaultString(&cfg.Server.Port, "8080")
	defaultString(&cfg.Mongo.URI, "mongodb://localhost:27017")
	defaultString(&cfg.Mongo.Database, "dailyquiz")
	defaultString(&cfg.Redis.Addr, "localhost:6379")
	defaultString(&cfg.Auth.JWTSecret, "dev-secret-change-me")
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty or
// malformed.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

func overrideString(target *string, key string) {
	if val := os.Getenv(key); val != "" {
		*target = val
	}
}

func defaultString(target *string, fallback string) {
	if *target == "" {
		*target = fallback
	}
}
