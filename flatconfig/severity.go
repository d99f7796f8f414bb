// Package flatconfig composes ordered lint configuration fragments into a single
// configuration, following the flat-config model used by JavaScript linters.
//
// A configuration is an ordered list of blocks. Each block may be scoped to a set
// of file patterns and carries the rules it enforces. For any file, the blocks that
// match it are applied in list order and every rule id is overwritten by the last
// block that sets it. There is no deep merge of rule options: the later setting
// replaces the earlier one wholesale.
//
// Key types:
//   - Severity: Rule severity levels (off, warn, error)
//   - RuleSetting: A severity plus an opaque options payload
//   - RuleSet: Ordered mapping from rule id to RuleSetting
//   - ConfigBlock: The unit of composition (files, ignores, language options, rules)
//   - Fragment: Anything that contributes blocks to a composition
//   - Provider: A rule-provider bundle exposing a recommended profile
//   - Configuration: The composed, immutable block list
package flatconfig

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSeverity is returned when a severity value cannot be parsed.
var ErrInvalidSeverity = errors.New("invalid severity")

// Severity represents the severity level of a rule.
// Numeric values align with the linter's own numeric severities.
type Severity int

const (
	// Off disables the rule.
	Off Severity = iota
	// Warn reports violations without failing the lint run.
	Warn
	// Error reports violations and fails the lint run.
	Error
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case Off:
		return "off"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s >= Off && s <= Error
}

// ParseSeverity parses a severity from its string or numeric form.
// Accepted values are "off", "warn", "error" (case-insensitive) and 0, 1, 2.
func ParseSeverity(v any) (Severity, error) {
	switch t := v.(type) {
	case Severity:
		if t.Valid() {
			return t, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "off", "0":
			return Off, nil
		case "warn", "1":
			return Warn, nil
		case "error", "2":
			return Error, nil
		}
	case int:
		if s := Severity(t); s.Valid() {
			return s, nil
		}
	case int64:
		if s := Severity(t); s.Valid() {
			return s, nil
		}
	case float64:
		if s := Severity(t); s.Valid() && float64(s) == t {
			return s, nil
		}
	}
	return Off, fmt.Errorf("%w: %v", ErrInvalidSeverity, v)
}
