package flatconfig

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuiltinProvider_Accessors(t *testing.T) {
	block := &ConfigBlock{Name: "p/recommended"}
	p := &BuiltinProvider{
		ProviderName:    "eslint-plugin-test",
		ProviderVersion: "1.2.3",
		Profile:         []*ConfigBlock{block},
	}

	if got := p.Name(); got != "eslint-plugin-test" {
		t.Errorf("Name() = %q, want %q", got, "eslint-plugin-test")
	}
	if got := p.Version(); got != "1.2.3" {
		t.Errorf("Version() = %q, want %q", got, "1.2.3")
	}
	if got := p.Recommended(); len(got) != 1 || got[0] != block {
		t.Errorf("Recommended() = %v, want the profile", got)
	}
}

func TestBuiltinProvider_RuleNames(t *testing.T) {
	p := &BuiltinProvider{
		Profile: []*ConfigBlock{
			{Rules: rules("b", Rule(Error), "a", Rule(Error))},
			{Files: []string{"**/*.ts"}, Rules: rules("a", Rule(Off), "c", Rule(Warn))},
			{Ignores: []string{"dist/"}},
		},
	}

	want := []string{"b", "a", "c"}
	if diff := cmp.Diff(want, p.RuleNames()); diff != "" {
		t.Errorf("RuleNames() mismatch (-want +got):\n%s", diff)
	}
}

// TestBuiltinProvider_ImplementsProvider verifies BuiltinProvider satisfies Provider.
func TestBuiltinProvider_ImplementsProvider(t *testing.T) {
	var _ Provider = &BuiltinProvider{}
}

func TestRecommended_NilProvider(t *testing.T) {
	if got := Recommended(nil).Blocks(); got != nil {
		t.Errorf("Recommended(nil).Blocks() = %v, want nil", got)
	}
}

func TestBlocks_Fragment(t *testing.T) {
	a := &ConfigBlock{Name: "a"}
	b := &ConfigBlock{Name: "b"}
	cfg := Compose(Blocks{a, b})

	var names []string
	for _, blk := range cfg.Blocks() {
		names = append(names, blk.Name)
	}
	if diff := cmp.Diff([]string{"a", "b"}, names); diff != "" {
		t.Errorf("block order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuiltinProvider_Clone(t *testing.T) {
	p := &BuiltinProvider{
		ProviderName:    "acme",
		ProviderVersion: "1.0.0",
		Profile: []*ConfigBlock{
			{Name: "acme/recommended", Rules: rules("acme/no-foo", Rule(Error, map[string]any{"max": 3}))},
		},
	}

	c := p.Clone()
	c.Profile[0].Rules.Set("acme/no-foo", Rule(Off))
	c.Profile = append(c.Profile, &ConfigBlock{Name: "extra"})

	if len(p.Profile) != 1 {
		t.Fatalf("original profile has %d blocks, want 1", len(p.Profile))
	}
	if s, _ := p.Profile[0].Rules.Get("acme/no-foo"); s.Severity != Error {
		t.Errorf("original acme/no-foo = %v, want error", s.Severity)
	}
	if c.Name() != "acme" || c.Version() != "1.0.0" {
		t.Errorf("Clone() = %s@%s, want acme@1.0.0", c.Name(), c.Version())
	}
	if (*BuiltinProvider)(nil).Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}
