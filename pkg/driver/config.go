package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

// Version is the tool version checked against a config's requires field.
const Version = "0.1.0"

// ConfigFileName is the file FindConfig looks for.
const ConfigFileName = "lox.yml"

var ErrConfigNotFound = errors.New("lox.yml not found")

// Config represents the parsed contents of lox.yml.
type Config struct {
	Path         string
	Requires     string
	Color        bool
	Prompt       string
	History      string
	MaxCallDepth int
	Globals      map[string]runtime.Value
}

// DefaultConfig is used when no lox.yml is present.
func DefaultConfig() *Config {
	return &Config{
		Color:        true,
		Prompt:       "> ",
		History:      "~/.lox_history",
		MaxCallDepth: interpreter.DefaultMaxCallDepth,
		Globals:      map[string]runtime.Value{},
	}
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig parses lox.yml from disk, returning a validated config with
// defaults filled in for omitted fields.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// DecodeConfig reads and validates a config document. An empty document
// yields the defaults.
func DecodeConfig(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	cfg := raw.toConfig()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs ValidationError
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("requires: invalid version constraint %q", c.Requires))
		}
	}
	if c.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "max_call_depth must not be negative")
	}
	names := make([]string, 0, len(c.Globals))
	for name := range c.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !isIdentifier(name) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("globals.%s: not a valid variable name", name))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// CheckVersion verifies that version satisfies the requires constraint.
func (c *Config) CheckVersion(version string) error {
	if c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("config: requires: %w", err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("config: tool version %q: %w", version, err)
	}
	if ok, reasons := constraint.Validate(v); !ok {
		msgs := make([]string, 0, len(reasons))
		for _, r := range reasons {
			msgs = append(msgs, r.Error())
		}
		return fmt.Errorf("config: lox %s does not satisfy %q: %s", version, c.Requires, strings.Join(msgs, "; "))
	}
	return nil
}

// HistoryPath expands a leading ~ in the configured history path. An empty
// result disables history.
func (c *Config) HistoryPath() string {
	path := c.History
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// FindConfig walks upward from start looking for lox.yml.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ConfigFileName, origin, ErrConfigNotFound)
		}
		dir = parent
	}
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		alpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !alpha && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return token.Lookup(name) == token.Identifier
}

type configFile struct {
	Requires     string    `yaml:"requires"`
	Color        *bool     `yaml:"color"`
	Prompt       *string   `yaml:"prompt"`
	History      *string   `yaml:"history"`
	MaxCallDepth *int      `yaml:"max_call_depth"`
	Globals      globalMap `yaml:"globals"`
}

func (cf configFile) toConfig() *Config {
	cfg := DefaultConfig()
	cfg.Requires = strings.TrimSpace(cf.Requires)
	if cf.Color != nil {
		cfg.Color = *cf.Color
	}
	if cf.Prompt != nil {
		cfg.Prompt = *cf.Prompt
	}
	if cf.History != nil {
		cfg.History = strings.TrimSpace(*cf.History)
	}
	if cf.MaxCallDepth != nil {
		cfg.MaxCallDepth = *cf.MaxCallDepth
	}
	for name, val := range cf.Globals {
		cfg.Globals[name] = val
	}
	return cfg
}

// globalMap decodes a mapping of names to scalar values.
type globalMap map[string]runtime.Value

func (gm *globalMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*gm = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("globals must be a mapping")
	}
	result := make(globalMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("globals: names must be non-empty")
		}
		val, err := scalarValue(valNode)
		if err != nil {
			return fmt.Errorf("globals.%s: %w", key, err)
		}
		result[key] = val
	}
	*gm = result
	return nil
}

func scalarValue(node *yaml.Node) (runtime.Value, error) {
	if node.Kind == yaml.AliasNode {
		return scalarValue(node.Alias)
	}
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("expected a scalar value")
	}
	switch node.ShortTag() {
	case "!!null":
		return runtime.NilValue{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: b}, nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: f}, nil
	default:
		return runtime.StringValue{Val: node.Value}, nil
	}
}
