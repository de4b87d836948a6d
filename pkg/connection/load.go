package connection

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/nmconn/pkg/argspec"
)

// desiredFile is a desired-state file listing several connections.
type desiredFile struct {
	Connections []map[string]any `yaml:"connections"`
}

// LoadFile reads desired connection parameters from a YAML file holding
// either a single connection mapping or a "connections" list.
func LoadFile(path string) ([]*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	params, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return params, nil
}

// Parse decodes desired connection parameters from YAML.
func Parse(data []byte) ([]*Params, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("no connections defined")
	}

	var entries []map[string]any
	if _, ok := raw["connections"]; ok {
		var f desiredFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		entries = f.Connections
	} else {
		entries = []map[string]any{raw}
	}

	out := make([]*Params, 0, len(entries))
	for i, e := range entries {
		p, err := ParamsFromMap(e)
		if err != nil {
			return nil, fmt.Errorf("connection %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ParamsFromMap validates raw module arguments against the nmcli argument
// spec, applying its defaults, and decodes them into Params.
func ParamsFromMap(raw map[string]any) (*Params, error) {
	normalized, err := argspec.NMCLI.Validate(raw)
	if err != nil {
		return nil, err
	}

	buf, err := yaml.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encoding parameters: %w", err)
	}
	p := &Params{}
	if err := yaml.Unmarshal(buf, p); err != nil {
		return nil, fmt.Errorf("decoding parameters: %w", err)
	}
	return p, nil
}
