package argspec

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/newtron-network/nmconn/pkg/util"
)

// internalPrefix marks framework-injected parameters that specs never
// declare.
const internalPrefix = "_ansible_"

// Validate checks params against s and returns a normalized copy:
// values coerced to their declared types, defaults filled in, nested
// options validated. All problems are reported together as a
// *util.ValidationError.
func (s *Spec) Validate(params map[string]any) (map[string]any, error) {
	v := &util.ValidationBuilder{}
	out := validateOptions(v, "", s.Options, params)

	for _, group := range s.MutuallyExclusive {
		var present []string
		for _, k := range group {
			if params[k] != nil {
				present = append(present, k)
			}
		}
		if len(present) > 1 {
			v.AddErrorf("parameters are mutually exclusive: %s", strings.Join(group, "|"))
		}
	}

	for _, r := range s.RequiredIf {
		if out[r.Key] == nil || fmt.Sprint(out[r.Key]) != fmt.Sprint(r.Value) {
			continue
		}
		var missing []string
		for _, req := range r.Requirements {
			if out[req] == nil {
				missing = append(missing, req)
			}
		}
		if len(missing) > 0 {
			v.AddErrorf("%s is %v but all of the following are missing: %s", r.Key, r.Value, strings.Join(missing, ", "))
		}
	}

	if err := v.Build(); err != nil {
		return nil, err
	}
	return out, nil
}

func validateOptions(v *util.ValidationBuilder, path string, options map[string]*Option, params map[string]any) map[string]any {
	out := make(map[string]any)

	var unknown []string
	for k := range params {
		if _, ok := options[k]; !ok && !strings.HasPrefix(k, internalPrefix) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		v.AddErrorf("unsupported parameters%s: %s", where(path), strings.Join(unknown, ", "))
	}

	for _, name := range sortedKeys(options) {
		opt := options[name]
		full := join(path, name)
		raw, present := params[name]
		if !present || raw == nil {
			if opt.Required {
				v.AddErrorf("missing required argument: %s", full)
				continue
			}
			if opt.Default != nil {
				out[name] = opt.Default
			}
			continue
		}

		val, err := coerce(opt.Type, raw)
		if err != nil {
			v.AddErrorf("argument %s: %v", full, err)
			continue
		}

		switch opt.Type {
		case TypeList:
			items := val.([]any)
			for i, item := range items {
				elem, err := coerce(opt.Elements, item)
				if err != nil {
					v.AddErrorf("argument %s[%d]: %v", full, i, err)
					continue
				}
				if opt.Elements == TypeDict && opt.Options != nil {
					elem = validateOptions(v, fmt.Sprintf("%s.%d", full, i), opt.Options, elem.(map[string]any))
				}
				checkChoice(v, full, opt.Choices, elem)
				items[i] = elem
			}
			val = items
		case TypeDict:
			if opt.Options != nil {
				val = validateOptions(v, full, opt.Options, val.(map[string]any))
			}
		default:
			checkChoice(v, full, opt.Choices, val)
		}
		out[name] = val
	}
	return out
}

func checkChoice(v *util.ValidationBuilder, name string, choices []any, val any) {
	if len(choices) == 0 || val == nil {
		return
	}
	for _, c := range choices {
		if fmt.Sprint(c) == fmt.Sprint(val) {
			return
		}
	}
	strs := make([]string, len(choices))
	for i, c := range choices {
		strs[i] = fmt.Sprint(c)
	}
	v.AddErrorf("value of %s must be one of: %s, got: %v", name, strings.Join(strs, ", "), val)
}

// coerce converts a decoded JSON or YAML value to the declared type,
// accepting the loose spellings automation inputs commonly use.
func coerce(t Type, raw any) (any, error) {
	switch t {
	case TypeStr:
		switch x := raw.(type) {
		case string:
			return x, nil
		case bool, int, int64, float64, json.Number:
			return fmt.Sprint(x), nil
		}
	case TypeBool:
		return toBool(raw)
	case TypeInt:
		return toInt(raw)
	case TypeList:
		switch x := raw.(type) {
		case []any:
			out := make([]any, len(x))
			copy(out, x)
			return out, nil
		case []string:
			out := make([]any, len(x))
			for i, s := range x {
				out[i] = s
			}
			return out, nil
		case string:
			var out []any
			for _, s := range util.SplitCommaSeparated(x) {
				out = append(out, s)
			}
			return out, nil
		}
	case TypeDict:
		switch x := raw.(type) {
		case map[string]any:
			out := make(map[string]any, len(x))
			for k, val := range x {
				out[k] = val
			}
			return out, nil
		}
	case TypeRaw, "":
		return raw, nil
	}
	return nil, fmt.Errorf("%v (%s) cannot be converted to %s", raw, reflect.TypeOf(raw), t)
}

func toBool(raw any) (bool, error) {
	switch x := raw.(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(x) {
		case "yes", "on", "true", "1", "y", "t":
			return true, nil
		case "no", "off", "false", "0", "n", "f":
			return false, nil
		}
	case int:
		if x == 0 || x == 1 {
			return x == 1, nil
		}
	case float64:
		if x == 0 || x == 1 {
			return x == 1, nil
		}
	}
	return false, fmt.Errorf("%v is not a valid boolean", raw)
}

func toInt(raw any) (int, error) {
	switch x := raw.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x == math.Trunc(x) {
			return int(x), nil
		}
	case json.Number:
		n, err := x.Int64()
		if err == nil {
			return int(n), nil
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%v is not a valid integer", raw)
}

// NoLogPaths returns the dotted paths (list elements by index) of every
// secret value present in params.
func (s *Spec) NoLogPaths(params map[string]any) []string {
	return noLogPaths("", s.Options, params)
}

func noLogPaths(path string, options map[string]*Option, params map[string]any) []string {
	var paths []string
	for _, name := range sortedKeys(options) {
		opt := options[name]
		val, ok := params[name]
		if !ok || val == nil {
			continue
		}
		full := join(path, name)
		if opt.Secret() {
			paths = append(paths, full)
			continue
		}
		if opt.Options == nil {
			continue
		}
		switch x := val.(type) {
		case map[string]any:
			paths = append(paths, noLogPaths(full, opt.Options, x)...)
		case []any:
			for i, item := range x {
				if m, ok := item.(map[string]any); ok {
					paths = append(paths, noLogPaths(fmt.Sprintf("%s.%d", full, i), opt.Options, m)...)
				}
			}
		}
	}
	return paths
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func where(path string) string {
	if path == "" {
		return ""
	}
	return " in " + path
}
