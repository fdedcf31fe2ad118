package depot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv.
const (
	EnvConfig   = "DEPOT_CONFIG"
	EnvAutoload = "DEPOT_AUTOLOAD"
)

// WithEnvFiles sets the .env files LoadEnvConfiguration reads. Defaults to
// ".env".
func WithEnvFiles(files ...string) LoadOption {
	return func(cfg *loadConfig) {
		cfg.envFiles = append(cfg.envFiles, files...)
	}
}

// LoadEnv builds a Configuration from the environment, after loading the
// given .env files (or ".env"). Missing .env files are ignored; malformed
// ones are an error.
//
// DEPOT_CONFIG names a YAML configuration file; DEPOT_AUTOLOAD overrides its
// autoload flag.
func LoadEnv(envFiles ...string) (Configuration, error) {
	return LoadEnvConfiguration(WithEnvFiles(envFiles...))
}

// LoadEnvConfiguration is LoadEnv with loader options, such as WithClosures
// for the file named by DEPOT_CONFIG.
func LoadEnvConfiguration(opts ...LoadOption) (Configuration, error) {
	cfg := newLoadConfig(opts)

	files := cfg.envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		// .env may not exist in production
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Configuration{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var result Configuration

	if path := os.Getenv(EnvConfig); path != "" {
		var err error

		result, err = LoadConfigurationFile(path, opts...)
		if err != nil {
			return Configuration{}, err
		}
	}

	if raw := os.Getenv(EnvAutoload); raw != "" {
		autoload, err := strconv.ParseBool(raw)
		if err != nil {
			return Configuration{}, fmt.Errorf("invalid %s %q: %w", EnvAutoload, raw, err)
		}

		result.Autoload = &autoload
	}

	return result, nil
}
