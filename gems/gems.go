// Package gems is the shared lint configuration for JavaScript, TypeScript and
// React projects.
//
// The configuration is a fixed, ordered list of fragments. Order is the
// contract: generic JavaScript rules come first, TypeScript rules next so they
// can replace generic rules for typed files, then React, accessibility and
// JSDoc rules, then the local overrides. Fragments passed with WithExtra come
// after all of them, so a downstream project always has the last word.
//
// Example:
//
//	cfg := gems.Config(
//	    gems.WithProject("./tsconfig.app.json"),
//	    gems.WithExtra(&flatconfig.ConfigBlock{
//	        Rules: flatconfig.NewRuleSet("local").
//	            Set("no-console", flatconfig.Rule(flatconfig.Off)),
//	    }),
//	)
package gems

import (
	"github.com/hashicorp/go-hclog"

	"github.com/jokarl/gemslint/flatconfig"
)

// DefaultProject is the type-check manifest used by the typed scope.
const DefaultProject = "./tsconfig.json"

var (
	ignores    = []string{"**/dist/**", "**/node_modules/**", "**/coverage/**"}
	typedFiles = []string{"**/*.ts", "**/*.tsx"}
)

// IgnorePatterns returns the global ignore patterns.
func IgnorePatterns() []string {
	return append([]string(nil), ignores...)
}

// TypedFilePatterns returns the file patterns of the type-checked scope.
func TypedFilePatterns() []string {
	return append([]string(nil), typedFiles...)
}

type options struct {
	project string
	extra   []flatconfig.Fragment
	logger  hclog.Logger
}

// Option configures Config and Fragments.
type Option func(*options)

// WithProject sets the parserOptions.project pointer of the typed scope.
// The path is passed through as-is.
func WithProject(path string) Option {
	return func(o *options) {
		o.project = path
	}
}

// WithExtra appends fragments after the bundled configuration.
func WithExtra(fragments ...flatconfig.Fragment) Option {
	return func(o *options) {
		o.extra = append(o.extra, fragments...)
	}
}

// WithLogger sets the logger used while composing.
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{project: DefaultProject}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fragments returns the ordered input of Config.
func Fragments(opts ...Option) []flatconfig.Fragment {
	o := newOptions(opts)

	fragments := []flatconfig.Fragment{
		ignoresBlock(),
		globalsBlock(),
		flatconfig.Recommended(JavaScript()),
		flatconfig.Recommended(TypeScript()),
		flatconfig.Recommended(React()),
		flatconfig.Recommended(Accessibility()),
		flatconfig.Recommended(JSDoc()),
		typedBlock(o.project),
		overridesBlock(),
	}
	return append(fragments, o.extra...)
}

// Config composes the shared configuration.
func Config(opts ...Option) *flatconfig.Configuration {
	o := newOptions(opts)
	composer := flatconfig.NewComposer()
	if o.logger != nil {
		composer = flatconfig.NewComposer(flatconfig.WithLogger(o.logger))
	}
	return composer.Compose(Fragments(opts...)...)
}

func ignoresBlock() *flatconfig.ConfigBlock {
	return &flatconfig.ConfigBlock{
		Name:    "gems/ignores",
		Ignores: IgnorePatterns(),
	}
}

func globalsBlock() *flatconfig.ConfigBlock {
	return &flatconfig.ConfigBlock{
		Name: "gems/globals",
		LanguageOptions: &flatconfig.LanguageOptions{
			EcmaVersion: "latest",
			SourceType:  "module",
			Globals: map[string]flatconfig.GlobalAccess{
				"window":          flatconfig.GlobalReadonly,
				"document":        flatconfig.GlobalReadonly,
				"navigator":       flatconfig.GlobalReadonly,
				"console":         flatconfig.GlobalReadonly,
				"fetch":           flatconfig.GlobalReadonly,
				"setTimeout":      flatconfig.GlobalReadonly,
				"clearTimeout":    flatconfig.GlobalReadonly,
				"process":         flatconfig.GlobalReadonly,
				"require":         flatconfig.GlobalReadonly,
				"module":          flatconfig.GlobalWritable,
				"__dirname":       flatconfig.GlobalReadonly,
				"structuredClone": flatconfig.GlobalReadonly,
			},
		},
		Settings: map[string]any{
			"react": map[string]any{"version": "detect"},
		},
	}
}

// typedBlock enables the rules that need type information. The project
// pointer is resolved by the lint engine, not here.
func typedBlock(project string) *flatconfig.ConfigBlock {
	return &flatconfig.ConfigBlock{
		Name:  "gems/typed",
		Files: TypedFilePatterns(),
		LanguageOptions: &flatconfig.LanguageOptions{
			Parser: "@typescript-eslint/parser",
			ParserOptions: map[string]any{
				"project":         project,
				"tsconfigRootDir": ".",
			},
		},
		Rules: flatconfig.NewRuleSet("gems/typed").
			Set("@typescript-eslint/await-thenable", flatconfig.Rule(flatconfig.Error)).
			Set("@typescript-eslint/no-floating-promises", flatconfig.Rule(flatconfig.Error)).
			Set("@typescript-eslint/no-misused-promises", flatconfig.Rule(flatconfig.Error)).
			Set("@typescript-eslint/no-unnecessary-type-assertion", flatconfig.Rule(flatconfig.Error)).
			Set("require-await", flatconfig.Rule(flatconfig.Off)).
			Set("@typescript-eslint/require-await", flatconfig.Rule(flatconfig.Error)).
			Set("@typescript-eslint/consistent-type-imports", flatconfig.Rule(flatconfig.Error,
				map[string]any{"prefer": "type-imports", "fixStyle": "inline-type-imports"})),
	}
}

func overridesBlock() *flatconfig.ConfigBlock {
	return &flatconfig.ConfigBlock{
		Name: "gems/overrides",
		Rules: flatconfig.NewRuleSet("gems/overrides").
			Set("eqeqeq", flatconfig.Rule(flatconfig.Error, "always")).
			Set("curly", flatconfig.Rule(flatconfig.Error, "all")).
			Set("no-var", flatconfig.Rule(flatconfig.Error)).
			Set("prefer-const", flatconfig.Rule(flatconfig.Error)).
			Set("no-console", flatconfig.Rule(flatconfig.Warn,
				map[string]any{"allow": []any{"warn", "error"}})).
			Set("react/react-in-jsx-scope", flatconfig.Rule(flatconfig.Off)).
			Set("react/prop-types", flatconfig.Rule(flatconfig.Off)).
			Set("@typescript-eslint/no-explicit-any", flatconfig.Rule(flatconfig.Warn)).
			Set("@typescript-eslint/no-unused-vars", flatconfig.Rule(flatconfig.Error,
				map[string]any{"argsIgnorePattern": "^_", "varsIgnorePattern": "^_"})).
			Set("jsdoc/require-jsdoc", flatconfig.Rule(flatconfig.Off)).
			Set("jsx-a11y/no-autofocus", flatconfig.Rule(flatconfig.Error,
				map[string]any{"ignoreNonDOM": true})),
	}
}
