package flatconfig

import (
	"encoding/json"
	"fmt"
)

// Configuration is the composed, ordered list of blocks. It is immutable:
// accessors return copies.
type Configuration struct {
	blocks []*ConfigBlock
}

// Len returns the number of blocks.
func (c *Configuration) Len() int {
	if c == nil {
		return 0
	}
	return len(c.blocks)
}

// Blocks returns a copy of the composed blocks, in order. A Configuration is
// itself a Fragment, so a downstream project can extend it:
//
//	cfg := flatconfig.Compose(gems.Config(), &flatconfig.ConfigBlock{Rules: local})
func (c *Configuration) Blocks() []*ConfigBlock {
	if c == nil {
		return nil
	}
	out := make([]*ConfigBlock, len(c.blocks))
	for i, b := range c.blocks {
		out[i] = b.Clone()
	}
	return out
}

// Ignored reports whether the file is excluded by the global ignore blocks.
// Patterns from all global ignore blocks are evaluated in list order.
func (c *Configuration) Ignored(file string) bool {
	if c == nil {
		return false
	}
	var patterns []string
	for _, b := range c.blocks {
		if b.IsGlobalIgnore() {
			patterns = append(patterns, b.Ignores...)
		}
	}
	return ignoredBy(patterns, normalizePath(file))
}

// ResolvedConfig is the effective configuration for a single file.
type ResolvedConfig struct {
	// LanguageOptions are the merged language options, nil if no block set any.
	LanguageOptions *LanguageOptions `json:"languageOptions,omitempty" yaml:"languageOptions,omitempty"`
	// Plugins are all plugins registered by matching blocks.
	Plugins map[string]PluginInfo `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	// Settings are the merged shared settings.
	Settings map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
	// Rules are the effective rules. Never nil.
	Rules *RuleSet `json:"rules" yaml:"rules"`
}

// Resolve computes the effective configuration for a file by applying every
// matching block in list order. It returns false if the file is globally ignored.
//
// Rules are overwritten per rule id. Scalar language options are replaced when
// set, parser options and globals merge per key, settings merge per top-level
// key and plugins merge per short name; in every case the later block wins.
func (c *Configuration) Resolve(file string) (*ResolvedConfig, bool) {
	if c.Ignored(file) {
		return nil, false
	}

	out := &ResolvedConfig{Rules: NewRuleSet(normalizePath(file))}
	if c == nil {
		return out, true
	}
	for _, b := range c.blocks {
		if !b.Matches(file) {
			continue
		}
		out.Rules.Overwrite(b.Rules.Clone())
		out.LanguageOptions = mergeLanguageOptions(out.LanguageOptions, b.LanguageOptions)
		for k, p := range b.Plugins {
			if out.Plugins == nil {
				out.Plugins = make(map[string]PluginInfo)
			}
			p.Rules = cloneStrings(p.Rules)
			out.Plugins[k] = p
		}
		for k, v := range b.Settings {
			if out.Settings == nil {
				out.Settings = make(map[string]any)
			}
			out.Settings[k] = deepCopy(v)
		}
	}
	return out, true
}

// EffectiveRules returns the effective rules for a file. A globally ignored
// file has no rules.
func (c *Configuration) EffectiveRules(file string) *RuleSet {
	resolved, ok := c.Resolve(file)
	if !ok {
		return NewRuleSet(normalizePath(file))
	}
	return resolved.Rules
}

// Layer is one block's contribution to a rule for a given file.
type Layer struct {
	// Index is the block position in the configuration.
	Index int
	// Block is the block name, or "block[N]" for unnamed blocks.
	Block string
	// Setting is the value the block set.
	Setting RuleSetting
}

// Explain returns every block that set the rule for the file, in the order
// they were applied. The last layer holds the effective value. It returns nil
// for ignored files and for rules no matching block sets.
func (c *Configuration) Explain(file, ruleID string) []Layer {
	if c == nil || c.Ignored(file) {
		return nil
	}
	var layers []Layer
	for i, b := range c.blocks {
		if !b.Matches(file) {
			continue
		}
		if s, ok := b.Rules.Get(ruleID); ok {
			layers = append(layers, Layer{Index: i, Block: blockLabel(b, i), Setting: s.clone()})
		}
	}
	return layers
}

// MarshalJSON encodes the configuration as a JSON array of blocks.
func (c *Configuration) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	blocks := c.blocks
	if blocks == nil {
		blocks = []*ConfigBlock{}
	}
	return json.Marshal(blocks)
}

// MarshalYAML encodes the configuration as a YAML sequence of blocks.
func (c *Configuration) MarshalYAML() (any, error) {
	if c == nil {
		return []*ConfigBlock{}, nil
	}
	return c.blocks, nil
}

func mergeLanguageOptions(dst, src *LanguageOptions) *LanguageOptions {
	if src == nil {
		return dst
	}
	if dst == nil {
		return src.Clone()
	}
	if src.Parser != "" {
		dst.Parser = src.Parser
	}
	if src.EcmaVersion != nil {
		dst.EcmaVersion = src.EcmaVersion
	}
	if src.SourceType != "" {
		dst.SourceType = src.SourceType
	}
	for k, v := range src.ParserOptions {
		if dst.ParserOptions == nil {
			dst.ParserOptions = make(map[string]any)
		}
		dst.ParserOptions[k] = deepCopy(v)
	}
	for k, v := range src.Globals {
		if dst.Globals == nil {
			dst.Globals = make(map[string]GlobalAccess)
		}
		dst.Globals[k] = v
	}
	return dst
}

func blockLabel(b *ConfigBlock, index int) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("block[%d]", index)
}
