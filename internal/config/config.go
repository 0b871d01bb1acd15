package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Data      DataConfig      `yaml:"data"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Identity  IdentityConfig  `yaml:"identity"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type DataConfig struct {
	SeedPath        string `yaml:"seed_path"`
	PermissionsPath string `yaml:"permissions_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	// Mode is "stdio" or "http"
	Mode string `yaml:"mode"`
}

type IdentityConfig struct {
	// DefaultUser is the acting user when a request carries no identity
	DefaultUser string `yaml:"default_user"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "jiraqa.db",
		},
		Data: DataConfig{
			SeedPath:        "data/seed.yaml",
			PermissionsPath: "data/permissions.yaml",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Identity: IdentityConfig{
			DefaultUser: "admin",
		},
	}

	if path := os.Getenv("JIRAQA_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("JIRAQA_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("JIRAQA_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JIRAQA_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("JIRAQA_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if seed := os.Getenv("JIRAQA_SEED_PATH"); seed != "" {
		cfg.Data.SeedPath = seed
	}
	if perms := os.Getenv("JIRAQA_PERMISSIONS_PATH"); perms != "" {
		cfg.Data.PermissionsPath = perms
	}
	if level := os.Getenv("JIRAQA_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("JIRAQA_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if user := os.Getenv("JIRAQA_DEFAULT_USER"); user != "" {
		cfg.Identity.DefaultUser = user
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
