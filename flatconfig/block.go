package flatconfig

import (
	"github.com/mitchellh/copystructure"
)

// GlobalAccess declares how a global identifier may be used.
type GlobalAccess string

const (
	// GlobalReadonly allows reads only.
	GlobalReadonly GlobalAccess = "readonly"
	// GlobalWritable allows reads and writes.
	GlobalWritable GlobalAccess = "writable"
	// GlobalOff removes a previously declared global.
	GlobalOff GlobalAccess = "off"
)

// LanguageOptions configures how matched files are parsed.
type LanguageOptions struct {
	// Parser is the parser module identity (e.g., "@typescript-eslint/parser").
	Parser string `json:"parser,omitempty" yaml:"parser,omitempty"`
	// EcmaVersion is the language version ("latest" or a year).
	EcmaVersion any `json:"ecmaVersion,omitempty" yaml:"ecmaVersion,omitempty"`
	// SourceType is "module", "script" or "commonjs".
	SourceType string `json:"sourceType,omitempty" yaml:"sourceType,omitempty"`
	// ParserOptions are passed to the parser untouched. The "project" key, when
	// present, points at a type-check manifest and is never resolved here.
	ParserOptions map[string]any `json:"parserOptions,omitempty" yaml:"parserOptions,omitempty"`
	// Globals declares global identifiers.
	Globals map[string]GlobalAccess `json:"globals,omitempty" yaml:"globals,omitempty"`
}

// PluginInfo describes a plugin registered under a short name.
type PluginInfo struct {
	// Name is the package name of the plugin (e.g., "eslint-plugin-react").
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Version is the plugin version, if known.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Rules lists the rule names the plugin defines, without the plugin prefix.
	Rules []string `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// HasRule reports whether the plugin defines the named rule.
func (p PluginInfo) HasRule(name string) bool {
	for _, r := range p.Rules {
		if r == name {
			return true
		}
	}
	return false
}

// ConfigBlock is the unit of composition.
//
// A block without Files applies to every file. A block that carries nothing
// but Ignores is a global ignore list. Fields that are not set stay nil and are
// omitted when encoded, so a rules-only block never reads as an explicit
// override of language options, plugins or settings.
//
// Example:
//
//	&flatconfig.ConfigBlock{
//	    Name:  "typescript/type-checked",
//	    Files: []string{"**/*.ts", "**/*.tsx"},
//	    LanguageOptions: &flatconfig.LanguageOptions{
//	        ParserOptions: map[string]any{"project": "./tsconfig.json"},
//	    },
//	    Rules: flatconfig.NewRuleSet("typed").
//	        Set("@typescript-eslint/no-floating-promises", flatconfig.Rule(flatconfig.Error)),
//	}
type ConfigBlock struct {
	// Name labels the block in diagnostics and explanations.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Files are the glob patterns the block applies to. Empty means all files.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
	// Ignores are glob patterns excluded from the block. A "!" prefix re-includes.
	Ignores []string `json:"ignores,omitempty" yaml:"ignores,omitempty"`
	// LanguageOptions configures parsing of matched files.
	LanguageOptions *LanguageOptions `json:"languageOptions,omitempty" yaml:"languageOptions,omitempty"`
	// Plugins maps short plugin names to plugin descriptions.
	Plugins map[string]PluginInfo `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	// Settings is free-form data shared with plugins (e.g., react version detection).
	Settings map[string]any `json:"settings,omitempty" yaml:"settings,omitempty"`
	// Rules are the rules enforced by this block.
	Rules *RuleSet `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Blocks returns the block itself, making a literal block a Fragment.
func (b *ConfigBlock) Blocks() []*ConfigBlock {
	if b == nil {
		return nil
	}
	return []*ConfigBlock{b}
}

// IsGlobalIgnore reports whether the block only carries ignore patterns.
// Any other field that is set, even to an empty value, makes it a regular block.
func (b *ConfigBlock) IsGlobalIgnore() bool {
	return len(b.Ignores) > 0 &&
		len(b.Files) == 0 &&
		b.LanguageOptions == nil &&
		b.Plugins == nil &&
		b.Settings == nil &&
		b.Rules == nil
}

// Clone returns a deep copy of the block. Nil fields stay nil.
func (b *ConfigBlock) Clone() *ConfigBlock {
	if b == nil {
		return nil
	}
	out := &ConfigBlock{
		Name:    b.Name,
		Files:   cloneStrings(b.Files),
		Ignores: cloneStrings(b.Ignores),
		Rules:   b.Rules.Clone(),
	}
	if b.LanguageOptions != nil {
		out.LanguageOptions = b.LanguageOptions.Clone()
	}
	if b.Plugins != nil {
		out.Plugins = make(map[string]PluginInfo, len(b.Plugins))
		for k, p := range b.Plugins {
			p.Rules = cloneStrings(p.Rules)
			out.Plugins[k] = p
		}
	}
	if b.Settings != nil {
		out.Settings = deepCopy(b.Settings).(map[string]any)
	}
	return out
}

// Clone returns a deep copy of the language options.
func (o *LanguageOptions) Clone() *LanguageOptions {
	if o == nil {
		return nil
	}
	out := &LanguageOptions{
		Parser:      o.Parser,
		EcmaVersion: o.EcmaVersion,
		SourceType:  o.SourceType,
	}
	if o.ParserOptions != nil {
		out.ParserOptions = deepCopy(o.ParserOptions).(map[string]any)
	}
	if o.Globals != nil {
		out.Globals = make(map[string]GlobalAccess, len(o.Globals))
		for k, v := range o.Globals {
			out.Globals[k] = v
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// deepCopy copies JSON-like option and settings values. These only ever hold
// maps, slices and scalars, so a copy failure is a programming error.
func deepCopy(v any) any {
	if v == nil {
		return nil
	}
	return copystructure.Must(copystructure.Copy(v))
}
