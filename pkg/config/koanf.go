package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/stagedit/pkg/errors"
	"github.com/arthur-debert/stagedit/pkg/logging"
)

const (
	// AppName is the config directory name under XDG_CONFIG_HOME
	AppName = "stagedit"

	// EnvConfigFile points at an explicit config file
	EnvConfigFile = "STAGEDIT_CONFIG"

	// EnvPrefix prefixes environment overrides, e.g.
	// STAGEDIT_CFG_CLEANUP__REMOVE_EMPTY_PARENT=true
	EnvPrefix = "STAGEDIT_CFG_"
)

// configFileNames are searched in order inside the config directory
var configFileNames = []string{"config.toml", "config.yaml", "config.yml"}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigFile overrides the config file search when set
	ConfigFile string
	// Overrides are dotted keys applied last, e.g. "markers.enabled"
	Overrides map[string]interface{}
}

// Load builds the effective configuration: embedded defaults, then the user
// config file, then environment variables, then explicit overrides
func Load(opts LoadOptions) (*Config, error) {
	k, err := NewKoanf(opts)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewKoanf loads all configuration layers into a koanf instance
func NewKoanf(opts LoadOptions) (*koanf.Koanf, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Load system defaults
	if err := k.Load(defaultsProvider{}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Load the user config file if there is one
	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
					WithDetail("path", path)
			}
			logger.Debug().Str("path", path).Msg("Loaded config file")
		} else if explicit {
			code := errors.ErrConfigLoad
			if stderrors.Is(err, fs.ErrNotExist) {
				code = errors.ErrFileNotFound
			}
			return nil, errors.Wrapf(err, code, "config file %s not readable", path).
				WithDetail("path", path)
		}
	}

	// 3. Environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	return k, nil
}

// ConfigDir returns the stagedit config directory.
// XDG_CONFIG_HOME is consulted at call time so it can change after startup.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, AppName)
}

func findConfigFile() string {
	dir := ConfigDir()
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

// envKey maps STAGEDIT_CFG_CLEANUP__REMOVE_EMPTY_PARENT to cleanup.remove_empty_parent
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
