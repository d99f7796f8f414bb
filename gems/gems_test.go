package gems

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"

	"github.com/jokarl/gemslint/flatconfig"
	"github.com/jokarl/gemslint/helper"
)

func fragmentNames(fragments []flatconfig.Fragment) []string {
	var names []string
	for _, f := range fragments {
		for _, b := range f.Blocks() {
			names = append(names, b.Name)
		}
	}
	return names
}

func TestFragments_Order(t *testing.T) {
	want := []string{
		"gems/ignores",
		"gems/globals",
		"@eslint/js/recommended",
		"typescript-eslint/base",
		"typescript-eslint/eslint-recommended",
		"typescript-eslint/recommended",
		"react/recommended",
		"react-hooks/recommended",
		"jsx-a11y/recommended",
		"jsdoc/recommended",
		"gems/typed",
		"gems/overrides",
	}

	if diff := cmp.Diff(want, fragmentNames(Fragments())); diff != "" {
		t.Errorf("fragment order mismatch (-want +got):\n%s", diff)
	}
}

func TestFragments_ExtraComesLast(t *testing.T) {
	extra := &flatconfig.ConfigBlock{Name: "project"}

	names := fragmentNames(Fragments(WithExtra(extra)))
	if got := names[len(names)-1]; got != "project" {
		t.Errorf("last fragment = %q, want %q", got, "project")
	}
}

func TestProviders(t *testing.T) {
	tests := []struct {
		provider *flatconfig.BuiltinProvider
		name     string
	}{
		{JavaScript(), "@eslint/js"},
		{TypeScript(), "typescript-eslint"},
		{React(), "eslint-plugin-react"},
		{Accessibility(), "eslint-plugin-jsx-a11y"},
		{JSDoc(), "eslint-plugin-jsdoc"},
	}

	providers := Providers()
	if len(providers) != len(tests) {
		t.Fatalf("Providers() returned %d providers, want %d", len(providers), len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if providers[i].Name() != tt.name {
				t.Errorf("Providers()[%d] = %s, want %s", i, providers[i].Name(), tt.name)
			}
			if tt.provider.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", tt.provider.Name(), tt.name)
			}
			if tt.provider.Version() == "" {
				t.Error("Version() is empty")
			}
			if len(tt.provider.RuleNames()) == 0 {
				t.Error("RuleNames() is empty")
			}
		})
	}
}

func TestConfig_Ignores(t *testing.T) {
	cfg := Config()

	for _, file := range []string{"dist/index.js", "packages/app/dist/main.js", "node_modules/react/index.js", "coverage/lcov.js"} {
		if !cfg.Ignored(file) {
			t.Errorf("Ignored(%q) = false, want true", file)
		}
		if _, ok := cfg.Resolve(file); ok {
			t.Errorf("Resolve(%q) ok = true, want false", file)
		}
	}
	if cfg.Ignored("src/index.js") {
		t.Error("Ignored(src/index.js) = true, want false")
	}
}

func TestConfig_OverridesWin(t *testing.T) {
	cfg := Config()

	for _, file := range []string{"src/a.js", "src/a.ts", "src/App.tsx"} {
		helper.AssertRule(t, cfg, file, "eqeqeq", flatconfig.Rule(flatconfig.Error, "always"))
		helper.AssertRule(t, cfg, file, "react/prop-types", flatconfig.Rule(flatconfig.Off))
		helper.AssertRule(t, cfg, file, "jsdoc/require-jsdoc", flatconfig.Rule(flatconfig.Off))
		helper.AssertRule(t, cfg, file, "@typescript-eslint/no-explicit-any", flatconfig.Rule(flatconfig.Warn))
	}
}

func TestConfig_TypeScriptReplacesGenericRules(t *testing.T) {
	cfg := Config()

	helper.AssertRule(t, cfg, "src/a.js", "no-undef", flatconfig.Rule(flatconfig.Error))
	helper.AssertRule(t, cfg, "src/a.ts", "no-undef", flatconfig.Rule(flatconfig.Off))
	helper.AssertRule(t, cfg, "src/a.js", "no-unused-vars", flatconfig.Rule(flatconfig.Off))
	helper.AssertRule(t, cfg, "src/a.js", "no-debugger", flatconfig.Rule(flatconfig.Error))
	helper.AssertRule(t, cfg, "src/a.ts", "no-debugger", flatconfig.Rule(flatconfig.Error))
}

func TestConfig_TypedScope(t *testing.T) {
	cfg := Config()

	helper.AssertRule(t, cfg, "src/a.ts", "@typescript-eslint/no-floating-promises", flatconfig.Rule(flatconfig.Error))
	helper.AssertRule(t, cfg, "src/App.tsx", "@typescript-eslint/no-floating-promises", flatconfig.Rule(flatconfig.Error))
	helper.AssertRuleUnset(t, cfg, "src/a.js", "@typescript-eslint/no-floating-promises")

	resolved, ok := cfg.Resolve("src/a.ts")
	if !ok {
		t.Fatal("Resolve(src/a.ts) ok = false")
	}
	if got := resolved.LanguageOptions.ParserOptions["project"]; got != DefaultProject {
		t.Errorf("project = %v, want %q", got, DefaultProject)
	}
	if got := resolved.LanguageOptions.ParserOptions["ecmaFeatures"]; got == nil {
		t.Error("ecmaFeatures from the React profile were lost")
	}

	js, _ := cfg.Resolve("src/a.js")
	if _, ok := js.LanguageOptions.ParserOptions["project"]; ok {
		t.Error("project pointer leaked to JavaScript files")
	}
}

func TestConfig_WithProject(t *testing.T) {
	cfg := Config(WithProject("./does/not/exist.json"))

	resolved, _ := cfg.Resolve("src/a.ts")
	if got := resolved.LanguageOptions.ParserOptions["project"]; got != "./does/not/exist.json" {
		t.Errorf("project = %v, want the pointer passed through unresolved", got)
	}
}

func TestConfig_WithExtraWins(t *testing.T) {
	cfg := Config(WithExtra(
		&flatconfig.ConfigBlock{
			Name:  "project",
			Rules: flatconfig.NewRuleSet("project").Set("eqeqeq", flatconfig.Rule(flatconfig.Warn)),
		},
		&flatconfig.ConfigBlock{
			Name:  "project/tests",
			Files: []string{"**/*.test.ts"},
			Rules: flatconfig.NewRuleSet("tests").Set("@typescript-eslint/no-explicit-any", flatconfig.Rule(flatconfig.Off)),
		},
	))

	helper.AssertRule(t, cfg, "src/a.ts", "eqeqeq", flatconfig.Rule(flatconfig.Warn))
	helper.AssertRule(t, cfg, "src/a.test.ts", "@typescript-eslint/no-explicit-any", flatconfig.Rule(flatconfig.Off))
	helper.AssertRule(t, cfg, "src/a.ts", "@typescript-eslint/no-explicit-any", flatconfig.Rule(flatconfig.Warn))
}

func TestConfig_Explain(t *testing.T) {
	layers := Config().Explain("src/a.ts", "no-var")

	var names []string
	for _, l := range layers {
		names = append(names, l.Block)
	}
	want := []string{"typescript-eslint/eslint-recommended", "gems/overrides"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Explain() layers mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_NoUnknownRules(t *testing.T) {
	helper.AssertNoUnknownRules(t, Config(), "src/a.js", "src/a.ts", "src/App.tsx", "src/App.jsx")
}

func TestConfig_Idempotent(t *testing.T) {
	a, b := Config(), Config()

	for _, file := range []string{"src/a.js", "src/a.ts", "src/App.tsx"} {
		helper.AssertRules(t, a.EffectiveRules(file), b.EffectiveRules(file))
	}
}

func TestConfig_ProfilesNotMutated(t *testing.T) {
	cfg := Config()
	blocks := cfg.Blocks()
	for _, b := range blocks {
		if b.Rules != nil {
			b.Rules.Set("eqeqeq", flatconfig.Rule(flatconfig.Off))
		}
	}

	helper.AssertRule(t, Config(), "src/a.js", "eqeqeq", flatconfig.Rule(flatconfig.Error, "always"))
	if JavaScript().Recommended()[0].Rules.Has("eqeqeq") {
		t.Error("bundled profile was mutated")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	IgnorePatterns()[0] = "**/src/**"
	TypedFilePatterns()[0] = "**/*.js"
	js := JavaScript()
	js.Profile[0].Rules.Set("no-debugger", flatconfig.Rule(flatconfig.Off))
	Providers()[0].Profile = nil

	cfg := Config()
	if cfg.Ignored("src/index.js") {
		t.Error("changing IgnorePatterns() result changed the configuration")
	}
	if !cfg.Ignored("dist/index.js") {
		t.Error("dist/index.js should still be ignored")
	}
	if resolved, _ := cfg.Resolve("src/a.js"); resolved.LanguageOptions.ParserOptions["project"] != nil {
		t.Error("changing TypedFilePatterns() result put JavaScript files in the typed scope")
	}
	if s, _ := cfg.EffectiveRules("src/a.js").Get("no-debugger"); s.Severity == flatconfig.Off {
		t.Error("changing a JavaScript() copy changed the configuration")
	}
	if len(JavaScript().Recommended()) == 0 {
		t.Error("changing a Providers() copy emptied the bundled profile")
	}
}

func TestConfig_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug})

	Config(WithLogger(logger))

	out := buf.String()
	if !strings.Contains(out, "rule overridden") {
		t.Errorf("expected override trace in log output:\n%s", out)
	}
	if !strings.Contains(out, "gems/overrides") {
		t.Errorf("expected overriding block in log output:\n%s", out)
	}
}

func TestLoadProvider_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no name", "version: 1.0.0\nblocks: []\n"},
		{"bad severity", "name: x\nblocks:\n  - rules:\n      eqeqeq: fatal\n"},
		{"not yaml", "name: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadProvider([]byte(tt.src)); err == nil {
				t.Error("LoadProvider() expected error")
			}
		})
	}
}
