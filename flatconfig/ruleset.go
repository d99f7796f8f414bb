package flatconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"
)

// RuleSet is a named, ordered mapping from rule id to RuleSetting.
// Setting an id that already exists replaces its value in place.
// The zero value is ready to use; a nil *RuleSet reads as empty.
type RuleSet struct {
	// Name identifies where the rules came from (e.g., "@eslint/js").
	Name string

	ids      []string
	settings map[string]RuleSetting
}

// NewRuleSet returns an empty RuleSet with the given name.
func NewRuleSet(name string) *RuleSet {
	return &RuleSet{Name: name}
}

// RulesFrom builds a RuleSet from a plain map. Map iteration order is not
// stable, so ids are inserted in sorted order.
func RulesFrom(name string, rules map[string]RuleSetting) *RuleSet {
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rs := NewRuleSet(name)
	for _, id := range ids {
		rs.Set(id, rules[id])
	}
	return rs
}

// Set assigns a setting to a rule id and returns the RuleSet for chaining.
func (rs *RuleSet) Set(id string, setting RuleSetting) *RuleSet {
	if rs.settings == nil {
		rs.settings = make(map[string]RuleSetting)
	}
	if _, ok := rs.settings[id]; !ok {
		rs.ids = append(rs.ids, id)
	}
	rs.settings[id] = setting
	return rs
}

// Get returns the setting for a rule id.
func (rs *RuleSet) Get(id string) (RuleSetting, bool) {
	if rs == nil {
		return RuleSetting{}, false
	}
	s, ok := rs.settings[id]
	return s, ok
}

// Has reports whether the rule id is set.
func (rs *RuleSet) Has(id string) bool {
	_, ok := rs.Get(id)
	return ok
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.ids)
}

// IDs returns the rule ids in insertion order.
func (rs *RuleSet) IDs() []string {
	if rs == nil {
		return nil
	}
	out := make([]string, len(rs.ids))
	copy(out, rs.ids)
	return out
}

// All iterates over the rules in insertion order.
func (rs *RuleSet) All() iter.Seq2[string, RuleSetting] {
	return func(yield func(string, RuleSetting) bool) {
		if rs == nil {
			return
		}
		for _, id := range rs.ids {
			if !yield(id, rs.settings[id]) {
				return
			}
		}
	}
}

// Map returns the rules as a plain map.
func (rs *RuleSet) Map() map[string]RuleSetting {
	out := make(map[string]RuleSetting, rs.Len())
	for id, s := range rs.All() {
		out[id] = s
	}
	return out
}

// Overwrite applies every rule of other on top of rs. Each setting replaces
// the existing one wholesale; option payloads are never merged.
func (rs *RuleSet) Overwrite(other *RuleSet) {
	for id, s := range other.All() {
		rs.Set(id, s)
	}
}

// Clone returns a deep copy of the RuleSet. Cloning nil returns nil.
func (rs *RuleSet) Clone() *RuleSet {
	if rs == nil {
		return nil
	}
	out := NewRuleSet(rs.Name)
	for id, s := range rs.All() {
		out.Set(id, s.clone())
	}
	return out
}

// Equal reports whether both sets hold the same settings, ignoring order and name.
func (rs *RuleSet) Equal(other *RuleSet) bool {
	if rs.Len() != other.Len() {
		return false
	}
	for id, s := range rs.All() {
		o, ok := other.Get(id)
		if !ok || o.Severity != s.Severity || !reflect.DeepEqual(o.Options, s.Options) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the rules as a JSON object in insertion order.
func (rs *RuleSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for id, s := range rs.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		i++
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of rules, keeping document order.
func (rs *RuleSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("rules must be an object, got %v", tok)
	}

	rs.ids = nil
	rs.settings = nil
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected rule key %v", tok)
		}
		var s RuleSetting
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("rule %q: %w", id, err)
		}
		rs.Set(id, s)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML encodes the rules as a YAML mapping in insertion order.
func (rs *RuleSet) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for id, s := range rs.All() {
		val := &yaml.Node{}
		if err := val.Encode(s.Value()); err != nil {
			return nil, fmt.Errorf("rule %q: %w", id, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id},
			val,
		)
	}
	return node, nil
}

// UnmarshalYAML decodes a YAML mapping of rules, keeping document order.
func (rs *RuleSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: rules must be a mapping", value.Line)
	}

	rs.ids = nil
	rs.settings = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		id := value.Content[i].Value
		var s RuleSetting
		if err := value.Content[i+1].Decode(&s); err != nil {
			return fmt.Errorf("rule %q: %w", id, err)
		}
		rs.Set(id, s)
	}
	return nil
}
