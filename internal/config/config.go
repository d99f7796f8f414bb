// Package config loads gemslint project settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"

	"github.com/jokarl/gemslint/flatconfig"
	"github.com/jokarl/gemslint/gems"
	"github.com/jokarl/gemslint/hclext"
)

// Default values.
const (
	DefaultLogLevel = "warn"
	DefaultFormat   = "json"
)

// FileNames are the config file names searched for, in order.
var FileNames = []string{".gemslint.yaml", ".gemslint.yml"}

// Config holds the project settings.
type Config struct {
	// Project is the type-check manifest pointer for the typed scope.
	Project string `koanf:"project"`
	// Ignores are extra global ignore patterns.
	Ignores []string `koanf:"ignores"`
	// Overrides are project blocks in their YAML form, applied after the
	// shared configuration.
	Overrides []map[string]any `koanf:"overrides"`
	// HCLFiles are HCL-authored override files, applied after Overrides.
	HCLFiles []string `koanf:"hcl_files"`
	// Plugins are external rule providers.
	Plugins []PluginConfig `koanf:"plugins"`
	// LogLevel is the hclog level name.
	LogLevel string `koanf:"log_level"`
	// LogJSON switches log output to JSON.
	LogJSON bool `koanf:"log_json"`
	// Format is the output format: json or yaml.
	Format string `koanf:"format"`

	// Root is the directory relative paths are resolved against.
	Root string `koanf:"-"`
	// File is the config file that was loaded, if any.
	File string `koanf:"-"`

	// overridesNode is the overrides section of File as written.
	overridesNode *yaml.Node
}

// PluginConfig declares an external rule provider binary.
type PluginConfig struct {
	// Name labels the provider in messages.
	Name string `koanf:"name"`
	// Path is the provider binary, relative to the project root.
	Path string `koanf:"path"`
}

// Validate checks the settings.
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q: must be json or yaml", c.Format)
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	for _, p := range c.Ignores {
		if !flatconfig.ValidPattern(p) {
			return fmt.Errorf("invalid ignore pattern %q", p)
		}
	}
	for i, p := range c.Plugins {
		if p.Path == "" {
			return fmt.Errorf("plugins[%d]: path is required", i)
		}
	}
	return nil
}

// GemsOptions returns the options for gems.Config that this project implies.
func (c *Config) GemsOptions() []gems.Option {
	var opts []gems.Option
	if c.Project != "" {
		opts = append(opts, gems.WithProject(c.Project))
	}
	return opts
}

// OverrideFragments returns the project fragments in application order: the
// ignore block, the YAML overrides, then each HCL file.
func (c *Config) OverrideFragments() ([]flatconfig.Fragment, error) {
	var fragments []flatconfig.Fragment

	if len(c.Ignores) > 0 {
		fragments = append(fragments, &flatconfig.ConfigBlock{
			Name:    "project/ignores",
			Ignores: append([]string(nil), c.Ignores...),
		})
	}

	blocks, err := c.OverrideBlocks()
	if err != nil {
		return nil, err
	}
	if len(blocks) > 0 {
		fragments = append(fragments, flatconfig.Blocks(blocks))
	}

	for _, f := range c.HCLFiles {
		path := c.ResolvePath(f)
		blocks, diags := hclext.ParseFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to load %s: %w", path, diags)
		}
		fragments = append(fragments, flatconfig.Blocks(blocks))
	}

	return fragments, nil
}

// OverrideBlocks decodes the project override blocks. Blocks read from the
// config file keep the order their rules are written in; blocks set on
// Overrides directly come from maps, so their rules are sorted by id.
// Unnamed blocks are labelled "project/overrides[N]".
func (c *Config) OverrideBlocks() ([]*flatconfig.ConfigBlock, error) {
	var blocks []*flatconfig.ConfigBlock
	switch {
	case c.overridesNode != nil:
		if err := c.overridesNode.Decode(&blocks); err != nil {
			return nil, fmt.Errorf("invalid overrides: %w", err)
		}
	case len(c.Overrides) > 0:
		data, err := yaml.Marshal(c.Overrides)
		if err != nil {
			return nil, fmt.Errorf("failed to encode overrides: %w", err)
		}
		if err := yaml.Unmarshal(data, &blocks); err != nil {
			return nil, fmt.Errorf("invalid overrides: %w", err)
		}
	default:
		return nil, nil
	}

	for i, b := range blocks {
		if b == nil {
			return nil, fmt.Errorf("invalid overrides: entry %d is empty", i)
		}
		if b.Name == "" {
			b.Name = fmt.Sprintf("project/overrides[%d]", i)
		}
	}
	return blocks, nil
}

// readOverrides returns the overrides section of a config file, or nil if
// the file has none.
func readOverrides(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Overrides yaml.Node `yaml:"overrides"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Overrides.Kind == 0 {
		return nil, nil
	}
	return &doc.Overrides, nil
}

// ResolvePath resolves a path relative to Root.
func (c *Config) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Root == "" {
		return path
	}
	return filepath.Join(c.Root, path)
}

// RelPath returns file in the root-relative form block patterns match
// against. Absolute paths are made relative to Root; relative paths are
// already taken to be relative to Root.
func (c *Config) RelPath(file string) string {
	if !filepath.IsAbs(file) || c.Root == "" {
		return file
	}
	rel, err := filepath.Rel(c.Root, file)
	if err != nil {
		return file
	}
	return rel
}

// Level returns the configured log level.
func (c *Config) Level() hclog.Level {
	return hclog.LevelFromString(strings.TrimSpace(c.LogLevel))
}
