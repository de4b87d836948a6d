package connection

import (
	"encoding/json"
	"strings"

	"github.com/newtron-network/nmconn/pkg/nmcli"
	"github.com/newtron-network/nmconn/pkg/util"
)

// DiffEntry is the comparison of one setting.
type DiffEntry struct {
	Key     string
	Before  any
	After   any
	Changed bool
}

// Diff records every setting considered by Detect, in setting order.
type Diff struct {
	Entries []DiffEntry
}

// Before returns the observed value of every considered setting. Secret
// values are replaced with nmcli.Hidden.
func (d *Diff) Before() map[string]any {
	out := make(map[string]any, len(d.Entries))
	for _, e := range d.Entries {
		out[e.Key] = masked(e.Key, e.Before)
	}
	return out
}

// After returns the desired value of every considered setting. Secret
// values are replaced with nmcli.Hidden.
func (d *Diff) After() map[string]any {
	out := make(map[string]any, len(d.Entries))
	for _, e := range d.Entries {
		out[e.Key] = masked(e.Key, e.After)
	}
	return out
}

func masked(key string, v any) any {
	if v == nil || !nmcli.IsSecret(key) {
		return v
	}
	return nmcli.Hidden
}

// Changed returns the entries whose values differ.
func (d *Diff) Changed() []DiffEntry {
	var out []DiffEntry
	for _, e := range d.Entries {
		if e.Changed {
			out = append(out, e)
		}
	}
	return out
}

// MarshalJSON encodes the diff as {"before": {...}, "after": {...}}.
func (d *Diff) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"before": d.Before(),
		"after":  d.After(),
	})
}

// Detect compares the desired settings against an existing profile's
// observed state and reports whether they differ.
func (m *Mapper) Detect(observed nmcli.State) (bool, *Diff) {
	desired := NewOptions()
	if !(m.connType == "vpn" && m.p.Ifname == "") {
		desired.Set("connection.interface-name", strValue(m.p.Ifname))
	}
	desired.Merge(m.Options(true))
	return m.compare(desired, observed)
}

func (m *Mapper) compare(desired *Options, observed nmcli.State) (bool, *Diff) {
	changed := false
	diff := &Diff{}
	macKey := m.macSetting()
	mtuKey := m.mtuSetting()

	for _, key := range desired.Keys() {
		value, _ := desired.Get(key)
		if value == nil || value == "" {
			continue
		}

		current, present := observed[key]
		if present {
			current, value = normalize(key, current, value, macKey)
		}

		entry := DiffEntry{Key: key, Before: current}
		cl, curIsList := current.([]string)
		vl, valIsList := value.([]string)
		switch {
		case curIsList && valIsList:
			if orderedListSettings[key] {
				entry.Changed = !util.EqualStrings(cl, vl)
			} else {
				entry.Changed = !util.EqualUnordered(cl, vl)
			}
			entry.After = vl
		case key == mtuKey && m.connType == "dummy" && !present && value == "auto" && m.p.MTU == nil:
			// dummy profiles do not report an MTU until one is set
			entry.After = nil
		default:
			text := toText(value)
			cs, curIsString := current.(string)
			entry.Changed = !curIsString || cs != text
			entry.After = text
		}
		changed = changed || entry.Changed
		diff.Entries = append(diff.Entries, entry)
	}
	return changed, diff
}

// normalize brings an observed value and a desired value into comparable
// form for settings nmcli reports differently from how they are set.
func normalize(key string, current, value any, macKey string) (any, any) {
	switch {
	case key == "802-11-wireless.wake-on-wlan":
		if s, ok := current.(string); ok {
			current = hexToDecimal(s)
		}
	case key == "ipv4.routes" || key == "ipv6.routes":
		if l, ok := current.([]string); ok {
			current = normalizeRoutes(l)
		}
	case key == macKey:
		value = strings.ToUpper(toText(value))
		if s, ok := current.(string); ok && s != "" {
			current = util.NormalizeMAC(s)
		}
	case key == "gsm.apn":
		if s, ok := current.(string); ok {
			current = strings.Trim(s, `"`)
		}
	case key == "vpn.data":
		if s, ok := current.(string); ok && s != "" {
			current = vpnDataParts(s, true)
		}
		value = vpnDataParts(toText(value), false)
	}
	return current, value
}
