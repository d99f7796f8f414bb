package flatconfig

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"
)

func rules(pairs ...any) *RuleSet {
	rs := NewRuleSet("")
	for i := 0; i+1 < len(pairs); i += 2 {
		rs.Set(pairs[i].(string), pairs[i+1].(RuleSetting))
	}
	return rs
}

func TestCompose_LaterBlockWins(t *testing.T) {
	base := &ConfigBlock{Name: "base", Rules: rules("eqeqeq", Rule(Warn))}
	override := &ConfigBlock{Name: "override", Rules: rules("eqeqeq", Rule(Error))}

	cfg := Compose(base, override)

	got, ok := cfg.EffectiveRules("src/app.js").Get("eqeqeq")
	if !ok {
		t.Fatal("eqeqeq should be set")
	}
	if got.Severity != Error {
		t.Errorf("eqeqeq = %v, want error", got.Severity)
	}
}

func TestCompose_ReversedOrderChangesResult(t *testing.T) {
	override := &ConfigBlock{Name: "override", Rules: rules("semi", Rule(Error))}
	base := &ConfigBlock{Name: "base", Rules: rules("semi", Rule(Off))}

	cfg := Compose(override, base)

	got, _ := cfg.EffectiveRules("index.js").Get("semi")
	if got.Severity != Off {
		t.Errorf("semi = %v, want off (last fragment wins even when misordered)", got.Severity)
	}
}

func TestCompose_ScopedBlockInheritsGlobalRules(t *testing.T) {
	global := &ConfigBlock{Name: "global", Rules: rules("no-var", Rule(Error))}
	scoped := &ConfigBlock{
		Name:  "special",
		Files: []string{"*.special.ext"},
		Rules: rules("semi", Rule(Warn)),
	}

	cfg := Compose(global, scoped)

	effective := cfg.EffectiveRules("a.special.ext")
	if got, ok := effective.Get("no-var"); !ok || got.Severity != Error {
		t.Errorf("no-var = %v (set=%v), want error inherited from global block", got, ok)
	}
	if got, ok := effective.Get("semi"); !ok || got.Severity != Warn {
		t.Errorf("semi = %v (set=%v), want warn from scoped block", got, ok)
	}

	other := cfg.EffectiveRules("a.js")
	if other.Has("semi") {
		t.Error("scoped rule should not apply to files outside the pattern")
	}
	if !other.Has("no-var") {
		t.Error("global rule should apply to every file")
	}
}

func TestCompose_OptionPayloadReplacedWholesale(t *testing.T) {
	first := &ConfigBlock{Rules: rules("camelcase", Rule(Error, map[string]any{"properties": "never"}))}
	second := &ConfigBlock{Rules: rules("camelcase", Rule(Error, map[string]any{"properties": "always"}))}

	cfg := Compose(first, second)

	got, _ := cfg.EffectiveRules("x.js").Get("camelcase")
	want := Rule(Error, map[string]any{"properties": "always"})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("camelcase mismatch (-want +got):\n%s", diff)
	}
}

func TestCompose_OptionPayloadNotMerged(t *testing.T) {
	first := &ConfigBlock{Rules: rules("max-len", Rule(Error, map[string]any{"code": 100, "ignoreUrls": true}))}
	second := &ConfigBlock{Rules: rules("max-len", Rule(Warn, map[string]any{"code": 120}))}

	got, _ := Compose(first, second).EffectiveRules("x.js").Get("max-len")
	opts := got.Options[0].(map[string]any)
	if _, ok := opts["ignoreUrls"]; ok {
		t.Error("fields from the earlier payload must not survive")
	}
	if opts["code"] != 120 {
		t.Errorf("code = %v, want 120", opts["code"])
	}
}

// Precedence is list position only, whether or not a block is scoped.
func TestCompose_GlobalAfterScopedWins(t *testing.T) {
	scoped := &ConfigBlock{Files: []string{"**/*.ts"}, Rules: rules("no-undef", Rule(Off))}
	global := &ConfigBlock{Rules: rules("no-undef", Rule(Error))}

	got, _ := Compose(scoped, global).EffectiveRules("src/a.ts").Get("no-undef")
	if got.Severity != Error {
		t.Errorf("no-undef = %v, want error (later global block wins)", got.Severity)
	}
}

func TestCompose_ScopedAfterGlobalWins(t *testing.T) {
	global := &ConfigBlock{Rules: rules("no-undef", Rule(Error))}
	scoped := &ConfigBlock{Files: []string{"**/*.ts"}, Rules: rules("no-undef", Rule(Off))}

	cfg := Compose(global, scoped)

	if got, _ := cfg.EffectiveRules("src/a.ts").Get("no-undef"); got.Severity != Off {
		t.Errorf("no-undef on .ts = %v, want off", got.Severity)
	}
	if got, _ := cfg.EffectiveRules("src/a.js").Get("no-undef"); got.Severity != Error {
		t.Errorf("no-undef on .js = %v, want error", got.Severity)
	}
}

func TestCompose_LastWinsForEveryPair(t *testing.T) {
	severities := []Severity{Off, Warn, Error}
	for _, a := range severities {
		for _, b := range severities {
			cfg := Compose(
				&ConfigBlock{Rules: rules("r", Rule(a))},
				&ConfigBlock{Rules: rules("r", Rule(b))},
			)
			got, _ := cfg.EffectiveRules("f.js").Get("r")
			if got.Severity != b {
				t.Errorf("compose(%v, %v) = %v, want %v", a, b, got.Severity, b)
			}
		}
	}
}

func TestCompose_Idempotent(t *testing.T) {
	sources := []Fragment{
		&ConfigBlock{Rules: rules("eqeqeq", Rule(Warn), "no-var", Rule(Error))},
		&ConfigBlock{Files: []string{"**/*.ts"}, Rules: rules("eqeqeq", Rule(Error))},
		&ConfigBlock{Ignores: []string{"**/dist/**"}},
	}

	a := Compose(sources...)
	b := Compose(sources...)

	for _, file := range []string{"src/a.ts", "src/a.js", "dist/a.js"} {
		if !a.EffectiveRules(file).Equal(b.EffectiveRules(file)) {
			t.Errorf("effective rules for %s differ between identical compositions", file)
		}
	}

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if !bytes.Equal(ja, jb) {
		t.Errorf("encoded configurations differ:\n%s\n%s", ja, jb)
	}
}

func TestCompose_RulesOnlyBlockRoundTrip(t *testing.T) {
	cfg := Compose(&ConfigBlock{Rules: rules("eqeqeq", Rule(Error))})

	blocks := cfg.Blocks()
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	b := blocks[0]
	if b.LanguageOptions != nil {
		t.Errorf("LanguageOptions = %+v, want nil", b.LanguageOptions)
	}
	if b.Plugins != nil {
		t.Errorf("Plugins = %v, want nil", b.Plugins)
	}
	if b.Settings != nil {
		t.Errorf("Settings = %v, want nil", b.Settings)
	}
	if b.Files != nil || b.Ignores != nil {
		t.Errorf("Files/Ignores = %v/%v, want nil", b.Files, b.Ignores)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `[{"rules":{"eqeqeq":"error"}}]`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestCompose_IsolatedFromInputMutation(t *testing.T) {
	block := &ConfigBlock{
		Rules:    rules("eqeqeq", Rule(Error)),
		Settings: map[string]any{"react": map[string]any{"version": "detect"}},
	}
	cfg := Compose(block)

	block.Rules.Set("eqeqeq", Rule(Off))
	block.Settings["react"].(map[string]any)["version"] = "18"

	if got, _ := cfg.EffectiveRules("a.js").Get("eqeqeq"); got.Severity != Error {
		t.Errorf("eqeqeq = %v, want error", got.Severity)
	}
	resolved, _ := cfg.Resolve("a.js")
	if v := resolved.Settings["react"].(map[string]any)["version"]; v != "detect" {
		t.Errorf("settings.react.version = %v, want detect", v)
	}
}

func TestCompose_SkipsNilFragments(t *testing.T) {
	var nilBlock *ConfigBlock
	cfg := Compose(nil, nilBlock, &ConfigBlock{Rules: rules("a", Rule(Warn))})
	if cfg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cfg.Len())
	}
}

func TestCompose_PassesUnknownRulesThrough(t *testing.T) {
	cfg := Compose(&ConfigBlock{Rules: rules("not-a-real-rule", Rule(Error))})
	if !cfg.EffectiveRules("a.js").Has("not-a-real-rule") {
		t.Error("unknown rule ids must pass through composition unchanged")
	}
}

func TestCompose_ProjectPointerPassedThrough(t *testing.T) {
	cfg := Compose(&ConfigBlock{
		Files: []string{"**/*.ts"},
		LanguageOptions: &LanguageOptions{
			ParserOptions: map[string]any{"project": "./does/not/exist.json"},
		},
	})
	resolved, _ := cfg.Resolve("src/a.ts")
	if got := resolved.LanguageOptions.ParserOptions["project"]; got != "./does/not/exist.json" {
		t.Errorf("project = %v, want the literal pointer", got)
	}
}

func TestCompose_ProviderFragment(t *testing.T) {
	p := &BuiltinProvider{
		ProviderName:    "base",
		ProviderVersion: "1.0.0",
		Profile: []*ConfigBlock{
			{Name: "base/recommended", Rules: rules("no-debugger", Rule(Error), "eqeqeq", Rule(Warn))},
		},
	}
	local := &ConfigBlock{Name: "local", Rules: rules("eqeqeq", Rule(Error))}

	cfg := Compose(Recommended(p), local)

	effective := cfg.EffectiveRules("a.js")
	if got, _ := effective.Get("eqeqeq"); got.Severity != Error {
		t.Errorf("eqeqeq = %v, want error", got.Severity)
	}
	if got, _ := effective.Get("no-debugger"); got.Severity != Error {
		t.Errorf("no-debugger = %v, want error", got.Severity)
	}
}

func TestCompose_ConfigurationIsAFragment(t *testing.T) {
	shared := Compose(&ConfigBlock{Rules: rules("semi", Rule(Error))})
	downstream := Compose(shared, &ConfigBlock{Rules: rules("semi", Rule(Off))})

	if downstream.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", downstream.Len())
	}
	if got, _ := downstream.EffectiveRules("a.js").Get("semi"); got.Severity != Off {
		t.Errorf("semi = %v, want off from the downstream block", got.Severity)
	}
	if got, _ := shared.EffectiveRules("a.js").Get("semi"); got.Severity != Error {
		t.Errorf("shared configuration changed: semi = %v", got.Severity)
	}
}

func TestComposer_LogsOverriddenGlobalRules(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "test",
		Level:  hclog.Debug,
		Output: &buf,
	})

	NewComposer(WithLogger(logger)).Compose(
		&ConfigBlock{Name: "base", Rules: rules("eqeqeq", Rule(Warn))},
		&ConfigBlock{Name: "local", Rules: rules("eqeqeq", Rule(Error))},
	)

	out := buf.String()
	if !strings.Contains(out, "rule overridden") || !strings.Contains(out, "rule=eqeqeq") {
		t.Errorf("log output should report the override, got:\n%s", out)
	}
	if !strings.Contains(out, "previous=base") {
		t.Errorf("log output should name the shadowed block, got:\n%s", out)
	}
}

func TestExplain_ListsLayersInOrder(t *testing.T) {
	cfg := Compose(
		&ConfigBlock{Name: "js", Rules: rules("no-unused-vars", Rule(Error))},
		&ConfigBlock{Name: "ts", Files: []string{"**/*.ts"}, Rules: rules("no-unused-vars", Rule(Off))},
		&ConfigBlock{Name: "local", Rules: rules("eqeqeq", Rule(Error))},
	)

	want := []Layer{
		{Index: 0, Block: "js", Setting: Rule(Error)},
		{Index: 1, Block: "ts", Setting: Rule(Off)},
	}
	if diff := cmp.Diff(want, cfg.Explain("src/a.ts", "no-unused-vars")); diff != "" {
		t.Errorf("Explain() mismatch (-want +got):\n%s", diff)
	}

	if got := cfg.Explain("src/a.js", "no-unused-vars"); len(got) != 1 {
		t.Errorf("Explain() for .js returned %d layers, want 1", len(got))
	}
	if got := cfg.Explain("src/a.js", "missing"); got != nil {
		t.Errorf("Explain() for unset rule = %v, want nil", got)
	}
}

func TestExplain_UnnamedBlockLabel(t *testing.T) {
	cfg := Compose(&ConfigBlock{Rules: rules("a", Rule(Warn))})
	layers := cfg.Explain("x.js", "a")
	if len(layers) != 1 || layers[0].Block != "block[0]" {
		t.Errorf("Explain() = %+v, want a single layer labelled block[0]", layers)
	}
}

func TestResolve_MergesLanguageOptionsAndSettings(t *testing.T) {
	cfg := Compose(
		&ConfigBlock{
			LanguageOptions: &LanguageOptions{
				EcmaVersion: "latest",
				SourceType:  "module",
				Globals:     map[string]GlobalAccess{"window": GlobalReadonly},
			},
			Settings: map[string]any{"react": map[string]any{"version": "detect"}},
			Plugins:  map[string]PluginInfo{"react": {Name: "eslint-plugin-react"}},
		},
		&ConfigBlock{
			Files: []string{"**/*.ts"},
			LanguageOptions: &LanguageOptions{
				Parser:        "@typescript-eslint/parser",
				ParserOptions: map[string]any{"project": "./tsconfig.json"},
				Globals:       map[string]GlobalAccess{"process": GlobalReadonly},
			},
			Settings: map[string]any{"import/resolver": "typescript"},
			Plugins:  map[string]PluginInfo{"@typescript-eslint": {Name: "typescript-eslint"}},
		},
	)

	resolved, ok := cfg.Resolve("src/a.ts")
	if !ok {
		t.Fatal("file should not be ignored")
	}

	wantLO := &LanguageOptions{
		Parser:        "@typescript-eslint/parser",
		EcmaVersion:   "latest",
		SourceType:    "module",
		ParserOptions: map[string]any{"project": "./tsconfig.json"},
		Globals: map[string]GlobalAccess{
			"window":  GlobalReadonly,
			"process": GlobalReadonly,
		},
	}
	if diff := cmp.Diff(wantLO, resolved.LanguageOptions); diff != "" {
		t.Errorf("LanguageOptions mismatch (-want +got):\n%s", diff)
	}
	if len(resolved.Plugins) != 2 {
		t.Errorf("Plugins = %v, want 2 entries", resolved.Plugins)
	}
	if len(resolved.Settings) != 2 {
		t.Errorf("Settings = %v, want 2 entries", resolved.Settings)
	}

	js, _ := cfg.Resolve("src/a.js")
	if js.LanguageOptions.Parser != "" {
		t.Errorf("Parser for .js = %q, want empty", js.LanguageOptions.Parser)
	}
}

func TestResolve_EmptyConfiguration(t *testing.T) {
	resolved, ok := Compose().Resolve("a.js")
	if !ok {
		t.Fatal("nothing should be ignored")
	}
	if resolved.Rules == nil || resolved.Rules.Len() != 0 {
		t.Errorf("Rules = %v, want empty non-nil set", resolved.Rules)
	}
	if resolved.LanguageOptions != nil || resolved.Plugins != nil || resolved.Settings != nil {
		t.Error("empty configuration should resolve to empty fields")
	}
}
