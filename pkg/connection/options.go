package connection

// Options is an insertion-ordered mapping of nmcli setting keys to values.
// Values are nil, bool, int, string, or []string. Setting an existing key
// replaces its value in place.
type Options struct {
	keys   []string
	values map[string]any
}

// NewOptions returns an empty Options.
func NewOptions() *Options {
	return &Options{values: make(map[string]any)}
}

// Set assigns v to key.
func (o *Options) Set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value of key.
func (o *Options) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Options) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *Options) Len() int {
	return len(o.keys)
}

// Merge sets every key of other, in other's order.
func (o *Options) Merge(other *Options) {
	for _, k := range other.keys {
		o.Set(k, other.values[k])
	}
}
