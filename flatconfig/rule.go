package flatconfig

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RuleSetting is the configured value of a single rule: a severity and an
// optional options payload. The payload is opaque to the composer.
//
// Example:
//
//	flatconfig.Rule(flatconfig.Error)                                        // "error"
//	flatconfig.Rule(flatconfig.Error, map[string]any{"properties": "never"}) // ["error", {...}]
type RuleSetting struct {
	// Severity is the rule severity.
	Severity Severity
	// Options are the rule options that follow the severity, if any.
	Options []any
}

// Rule returns a RuleSetting with the given severity and options.
func Rule(severity Severity, options ...any) RuleSetting {
	if len(options) == 0 {
		return RuleSetting{Severity: severity}
	}
	return RuleSetting{Severity: severity, Options: options}
}

// ParseRuleSetting parses a rule value in its configuration form: a bare
// severity ("error", 2) or a list whose first element is the severity and
// whose remaining elements are options.
func ParseRuleSetting(v any) (RuleSetting, error) {
	var list []any
	switch t := v.(type) {
	case RuleSetting:
		return t, nil
	case []any:
		list = t
	case []string:
		list = make([]any, len(t))
		for i, s := range t {
			list[i] = s
		}
	default:
		sev, err := ParseSeverity(v)
		if err != nil {
			return RuleSetting{}, err
		}
		return RuleSetting{Severity: sev}, nil
	}

	if len(list) == 0 {
		return RuleSetting{}, fmt.Errorf("%w: empty rule value", ErrInvalidSeverity)
	}
	sev, err := ParseSeverity(list[0])
	if err != nil {
		return RuleSetting{}, err
	}
	return Rule(sev, list[1:]...), nil
}

// Value returns the configuration form of the setting.
func (r RuleSetting) Value() any {
	if len(r.Options) == 0 {
		return r.Severity.String()
	}
	v := make([]any, 0, len(r.Options)+1)
	v = append(v, r.Severity.String())
	return append(v, r.Options...)
}

// MarshalJSON encodes the setting in its configuration form.
func (r RuleSetting) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Value())
}

// UnmarshalJSON decodes a setting from its configuration form. Integral
// numbers in the options decode as int.
func (r *RuleSetting) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseRuleSetting(NormalizeNumbers(v))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML encodes the setting in its configuration form.
func (r RuleSetting) MarshalYAML() (any, error) {
	return r.Value(), nil
}

// UnmarshalYAML decodes a setting from its configuration form.
func (r *RuleSetting) UnmarshalYAML(value *yaml.Node) error {
	var v any
	if err := value.Decode(&v); err != nil {
		return err
	}
	parsed, err := ParseRuleSetting(v)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*r = parsed
	return nil
}

func (r RuleSetting) clone() RuleSetting {
	if r.Options == nil {
		return r
	}
	return RuleSetting{Severity: r.Severity, Options: deepCopy(r.Options).([]any)}
}
