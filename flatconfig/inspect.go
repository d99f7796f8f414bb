package flatconfig

import (
	"sort"
	"strings"
)

// UnknownRules returns the effective rule ids for a file that no registered
// plugin defines. Only plugin-scoped ids ("plugin/rule" or "@scope/plugin/rule")
// are checked; core rule ids are assumed valid. Rules set to Off are skipped.
//
// Compose never calls this. Composition passes unknown ids through unchanged,
// and this check exists for tests and tooling that want to catch them early.
func UnknownRules(cfg *Configuration, file string) []string {
	resolved, ok := cfg.Resolve(file)
	if !ok {
		return nil
	}

	var unknown []string
	for id, s := range resolved.Rules.All() {
		if s.Severity == Off {
			continue
		}
		prefix, name, scoped := SplitRuleID(id)
		if !scoped {
			continue
		}
		p, registered := resolved.Plugins[prefix]
		if !registered || (len(p.Rules) > 0 && !p.HasRule(name)) {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// SplitRuleID splits a rule id into its plugin prefix and rule name.
// "react/jsx-key" yields ("react", "jsx-key", true); "@typescript-eslint/no-explicit-any"
// yields ("@typescript-eslint", "no-explicit-any", true); core ids such as
// "eqeqeq" yield ("", "eqeqeq", false).
func SplitRuleID(id string) (plugin, name string, scoped bool) {
	i := strings.LastIndex(id, "/")
	if i <= 0 {
		return "", id, false
	}
	return id[:i], id[i+1:], true
}
