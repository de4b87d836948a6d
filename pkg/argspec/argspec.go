// Package argspec describes the parameters an automation module accepts:
// their types, defaults, choices, secrecy, and nesting. Specs are plain
// data; Validate applies one to a set of user-supplied parameters.
package argspec

import (
	"sort"
)

// Type is the declared type of an option.
type Type string

const (
	TypeStr  Type = "str"
	TypeBool Type = "bool"
	TypeInt  Type = "int"
	TypeList Type = "list"
	TypeDict Type = "dict"
	TypeRaw  Type = "raw"
)

// Option declares one accepted parameter.
type Option struct {
	Type     Type               `yaml:"type,omitempty" json:"type,omitempty"`
	Elements Type               `yaml:"elements,omitempty" json:"elements,omitempty"`
	Required bool               `yaml:"required,omitempty" json:"required,omitempty"`
	Default  any                `yaml:"default,omitempty" json:"default,omitempty"`
	Choices  []any              `yaml:"choices,omitempty" json:"choices,omitempty"`
	NoLog    *bool              `yaml:"no_log,omitempty" json:"no_log,omitempty"`
	Options  map[string]*Option `yaml:"options,omitempty" json:"options,omitempty"`
}

// Secret reports whether the option's value must be masked in output.
func (o *Option) Secret() bool {
	return o.NoLog != nil && *o.NoLog
}

// RequiredIf makes Requirements mandatory when Key equals Value.
type RequiredIf struct {
	Key          string   `yaml:"key" json:"key"`
	Value        any      `yaml:"value" json:"value"`
	Requirements []string `yaml:"requirements" json:"requirements"`
}

// Spec is the full argument specification of a module.
type Spec struct {
	Name              string             `yaml:"name" json:"name"`
	Options           map[string]*Option `yaml:"argument_spec" json:"argument_spec"`
	MutuallyExclusive [][]string         `yaml:"mutually_exclusive,omitempty" json:"mutually_exclusive,omitempty"`
	RequiredIf        []RequiredIf       `yaml:"required_if,omitempty" json:"required_if,omitempty"`
}

// OptionNames returns s's top-level option names, sorted.
func (s *Spec) OptionNames() []string {
	return sortedKeys(s.Options)
}

func noLog(b bool) *bool {
	return &b
}

func sortedKeys(m map[string]*Option) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var registry = map[string]*Spec{}

func register(s *Spec) *Spec {
	registry[s.Name] = s
	return s
}

// Lookup returns the registered spec with the given module name.
func Lookup(name string) (*Spec, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns the names of all registered specs, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
