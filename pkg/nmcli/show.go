package nmcli

import (
	"regexp"
	"strings"

	"github.com/newtron-network/nmconn/pkg/util"
)

// State is the observed configuration of one connection as reported by
// `nmcli con show <name>`. Values are nil (nmcli printed "--"), a string,
// or a []string for list-typed settings.
type State map[string]any

// String returns the value of key as a string, or "" when it is absent,
// nil, or a list.
func (s State) String(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

// Type returns the connection.type reported for the connection.
func (s State) Type() string {
	return s.String("connection.type")
}

var enumValue = regexp.MustCompile(`^([-]?\d+) \((\w+)\)$`)

// ParseShow parses the colon-delimited output of `nmcli con show <name>`.
//
// Lines are "key: value". "--" means unset. bond.options is expanded into
// its option=value aliases (miimon, mode, ...) so they compare against the
// alias keys used on the command line. Route settings split on ";", other
// list settings on ",". Enum values printed as "NNN (name)" keep only the
// number.
func ParseShow(out string) State {
	state := make(State)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		pair := strings.SplitN(line, ":", 2)
		key := strings.TrimSpace(pair[0])
		if key == "" || len(pair) < 2 {
			continue
		}
		kind := SettingKind(key)
		raw := strings.TrimLeft(pair[1], " \t")

		switch {
		case raw == "--":
			if kind == KindList {
				state[key] = []string{}
			} else {
				state[key] = nil
			}
		case key == "bond.options":
			for _, opt := range strings.Split(raw, ",") {
				alias := strings.SplitN(opt, "=", 2)
				if len(alias) > 1 {
					state[alias[0]] = alias[1]
				}
			}
		case IsRouteSetting(key):
			state[key] = util.SplitTrim(raw, ";")
		case kind == KindList:
			state[key] = util.SplitTrim(raw, ",")
		default:
			if m := enumValue.FindStringSubmatch(raw); m != nil {
				state[key] = m[1]
			} else {
				state[key] = raw
			}
		}
	}
	return state
}

// parseProperties returns the property names of setting listed in the
// output of an edit session's `print <setting>` command.
func parseProperties(out, setting string) []string {
	prefix := setting + "."
	var props []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		pair := strings.SplitN(line, ":", 2)
		props = append(props, strings.ReplaceAll(strings.TrimSpace(pair[0]), prefix, ""))
	}
	return props
}
