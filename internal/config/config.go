package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github-pr-finder/internal/github"
	"github-pr-finder/internal/logger"
	"github-pr-finder/internal/repository/sqlite"
	"github-pr-finder/internal/server"
)

// DefaultEnvFile is picked up from the working directory when no config path is given.
const DefaultEnvFile = ".env"

type Config struct {
	HTTP   server.Config
	Logger logger.Config
	Github github.Config
	SQLite sqlite.Config
}

// New reads the config file at path. With an empty path the process
// environment is used, optionally seeded from DefaultEnvFile.
func New(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		err := godotenv.Load(DefaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", DefaultEnvFile, err)
		}

		err = cleanenv.ReadEnv(&cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}

		return &cfg, nil
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	err = cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &cfg, nil
}
