package helper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jokarl/gemslint/flatconfig"
)

// blockOptions compares blocks by content. Rule sets compare as maps, so
// their names and order do not matter, and nil equals empty.
var blockOptions = []cmp.Option{
	cmp.Comparer(func(a, b *flatconfig.RuleSet) bool {
		return a.Equal(b)
	}),
	cmpopts.EquateEmpty(),
}

// AssertRules compares two rule sets by content, ignoring order.
//
// Example:
//
//	helper.AssertRules(t, flatconfig.NewRuleSet("want").
//	    Set("eqeqeq", flatconfig.Rule(flatconfig.Error)),
//	    cfg.EffectiveRules("src/app.js"))
func AssertRules(t *testing.T, want, got *flatconfig.RuleSet) {
	t.Helper()

	if diff := cmp.Diff(want.Map(), got.Map(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

// AssertRuleOrder verifies the ids of a rule set, in order.
func AssertRuleOrder(t *testing.T, want []string, got *flatconfig.RuleSet) {
	t.Helper()

	if diff := cmp.Diff(want, got.IDs(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("rule order mismatch (-want +got):\n%s", diff)
	}
}

// AssertRule verifies the effective setting of one rule for a file.
//
// Example:
//
//	helper.AssertRule(t, cfg, "src/app.ts", "@typescript-eslint/no-explicit-any",
//	    flatconfig.Rule(flatconfig.Warn))
func AssertRule(t *testing.T, cfg *flatconfig.Configuration, file, id string, want flatconfig.RuleSetting) {
	t.Helper()

	got, ok := cfg.EffectiveRules(file).Get(id)
	if !ok {
		t.Errorf("rule %q is not set for %s, want %v", id, file, want.Value())
		return
	}
	if diff := cmp.Diff(want.Value(), got.Value()); diff != "" {
		t.Errorf("rule %q for %s mismatch (-want +got):\n%s", id, file, diff)
	}
}

// AssertRuleUnset verifies that a rule has no effective setting for a file.
func AssertRuleUnset(t *testing.T, cfg *flatconfig.Configuration, file, id string) {
	t.Helper()

	if got, ok := cfg.EffectiveRules(file).Get(id); ok {
		t.Errorf("rule %q for %s = %v, want unset", id, file, got.Value())
	}
}

// AssertBlocks compares block lists by content.
func AssertBlocks(t *testing.T, want, got []*flatconfig.ConfigBlock) {
	t.Helper()

	if diff := cmp.Diff(want, got, blockOptions...); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

// AssertNoUnknownRules verifies that every plugin-scoped rule enabled for the
// given files belongs to a registered plugin that defines it.
func AssertNoUnknownRules(t *testing.T, cfg *flatconfig.Configuration, files ...string) {
	t.Helper()

	for _, file := range files {
		if unknown := flatconfig.UnknownRules(cfg, file); len(unknown) > 0 {
			t.Errorf("unknown rules for %s: %v", file, unknown)
		}
	}
}
