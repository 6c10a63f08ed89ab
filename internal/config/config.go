// Package config loads application settings from a YAML file, FLASHCARDS_
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/flashcards/internal/domain"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "FLASHCARDS_"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Import   ImportConfig   `koanf:"import"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=text json"`
}

// ImportConfig controls markdown imports.
type ImportConfig struct {
	ReposDir string `koanf:"repos_dir" validate:"required"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Database: DatabaseConfig{Path: "flashcards.db"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Import:   ImportConfig{ReposDir: "repos"},
	}
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"db":         "database.path",
	"log-level":  "log.level",
	"log-format": "log.format",
	"repos-dir":  "import.repos_dir",
}

// RegisterFlags adds the configuration flags to fs, with defaults taken
// from Default.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "path to a YAML config file")
	fs.String("db", d.Database.Path, "path to the SQLite database file")
	fs.String("log-level", d.Log.Level, "log level: debug, info, warn, error")
	fs.String("log-format", d.Log.Format, "log format: text or json")
	fs.String("repos-dir", d.Import.ReposDir, "directory for git checkouts used by import")
}

// Load builds the configuration. path names a YAML file to read; an empty
// path reads no file, and a path that cannot be read is an error. fs may be
// nil; otherwise only flags the user set override file and environment
// values.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey turns FLASHCARDS_LOG_LEVEL into log.level and
// FLASHCARDS_IMPORT_REPOS_DIR into import.repos_dir.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration and returns an error wrapping
// domain.ErrValidation listing every failed field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %s %s", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

// ConfigFileFromEnv returns the config path named by FLASHCARDS_CONFIG, if any.
func ConfigFileFromEnv() string {
	return os.Getenv(EnvPrefix + "CONFIG")
}
