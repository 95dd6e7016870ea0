package config

import (
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/stagedit/pkg/errors"
)

// Config is the effective stagedit configuration
type Config struct {
	Markers MarkersConfig `koanf:"markers" toml:"markers" yaml:"markers"`
	Editor  EditorConfig  `koanf:"editor" toml:"editor" yaml:"editor"`
	Cleanup CleanupConfig `koanf:"cleanup" toml:"cleanup" yaml:"cleanup"`
	Label   LabelConfig   `koanf:"label" toml:"label" yaml:"label"`
}

// MarkersConfig controls templating of staged files
type MarkersConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" yaml:"enabled"`
	Start   string `koanf:"start" toml:"start" yaml:"start"`
	End     string `koanf:"end" toml:"end" yaml:"end"`
}

// EditorConfig controls editor resolution
type EditorConfig struct {
	OverrideVar string   `koanf:"override_var" toml:"override_var" yaml:"override_var"`
	Fallbacks   []string `koanf:"fallbacks" toml:"fallbacks" yaml:"fallbacks"`
}

// CleanupConfig controls teardown after a run
type CleanupConfig struct {
	RemoveEmptyParent bool `koanf:"remove_empty_parent" toml:"remove_empty_parent" yaml:"remove_empty_parent"`
}

// LabelConfig selects the security labeler
type LabelConfig struct {
	Mode string `koanf:"mode" toml:"mode" yaml:"mode"`
}

// Output formats understood by Marshal
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Validate checks values that cannot be expressed by the types alone
func (c *Config) Validate() error {
	if c.Markers.Enabled && (c.Markers.Start == "" || c.Markers.End == "") {
		return errors.New(errors.ErrInvalidInput, "markers.start and markers.end must both be set when markers are enabled")
	}
	if c.Markers.Enabled && c.Markers.Start == c.Markers.End {
		return errors.New(errors.ErrInvalidInput, "markers.start and markers.end must differ")
	}
	switch c.Label.Mode {
	case "", "none", "xattr":
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown label.mode %q", c.Label.Mode)
	}
	return nil
}

// Marshal renders the configuration in the given format
func (c *Config) Marshal(format string) ([]byte, error) {
	switch format {
	case FormatTOML, "":
		return toml.Marshal(c)
	case FormatYAML:
		return yaml.Marshal(c)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported format %q (want toml or yaml)", format)
	}
}
