package config

import (
	_ "embed"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/stagedit/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultsContent returns the embedded defaults file verbatim
func DefaultsContent() string {
	return string(defaultConfig)
}

// defaultsProvider feeds the embedded defaults to koanf
type defaultsProvider struct{}

func (defaultsProvider) ReadBytes() ([]byte, error) { return defaultConfig, nil }

func (defaultsProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "defaults provider only supports ReadBytes")
}

// Defaults returns the built-in configuration with no user layers applied
func Defaults() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(defaultsProvider{}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode defaults")
	}
	return &cfg, nil
}

// GenerateConfigContent returns a starter config file in format with every
// value commented out. The TOML template keeps the explanatory comments and
// section headers of the embedded defaults.
func GenerateConfigContent(format string) (string, error) {
	switch format {
	case FormatTOML, "":
		return commentOutLines(DefaultsContent(), isTOMLHeader), nil
	case FormatYAML:
		cfg, err := Defaults()
		if err != nil {
			return "", err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "failed to render defaults")
		}
		return commentOutLines(string(data), nil), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unsupported format %q (want toml or yaml)", format)
	}
}

func isTOMLHeader(line string) bool {
	return strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}

// commentOutLines prefixes every value line with "# ". Blank lines, existing
// comments and lines matched by keep are left alone.
func commentOutLines(content string, keep func(string) bool) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if keep != nil && keep(trimmed) {
			continue
		}
		lines[i] = "# " + line
	}
	return strings.Join(lines, "\n")
}
