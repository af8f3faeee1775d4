package repository

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// InstanceProperties is the property set of an entity or classification.
// Values are strings, string maps or int64 maps; they round-trip through
// JSON in the gorm binding, which is why the getters accept decoded forms.
type InstanceProperties map[string]interface{}

// NewInstanceProperties returns an empty property set.
func NewInstanceProperties() InstanceProperties {
	return make(InstanceProperties)
}

// AddString sets a string property. Empty values are skipped so that a
// non-merge update clears the property.
func (p InstanceProperties) AddString(name, value string) InstanceProperties {
	if value != "" {
		p[name] = value
	}
	return p
}

// AddStringMap sets a map property. Nil or empty maps are skipped.
func (p InstanceProperties) AddStringMap(name string, value map[string]string) InstanceProperties {
	if len(value) == 0 {
		return p
	}
	m := make(map[string]string, len(value))
	for k, v := range value {
		m[k] = v
	}
	p[name] = m
	return p
}

// AddLongMap sets an int64 map property. An empty map is stored as an
// empty map, so replacing a classification with it clears every key.
func (p InstanceProperties) AddLongMap(name string, value map[string]int64) InstanceProperties {
	m := make(map[string]int64, len(value))
	for k, v := range value {
		m[k] = v
	}
	p[name] = m
	return p
}

// GetString returns the string property or "".
func (p InstanceProperties) GetString(name string) string {
	if s, ok := p[name].(string); ok {
		return s
	}
	return ""
}

// GetStringMap returns the map property or nil.
func (p InstanceProperties) GetStringMap(name string) map[string]string {
	switch v := p[name].(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out
	case map[string]interface{}:
		out := make(map[string]string, len(v))
		for k, raw := range v {
			out[k] = fmt.Sprint(raw)
		}
		return out
	default:
		return nil
	}
}

// GetLongMap returns the int64 map property, or nil when absent.
func (p InstanceProperties) GetLongMap(name string) (map[string]int64, error) {
	switch v := p[name].(type) {
	case nil:
		return nil, nil
	case map[string]int64:
		out := make(map[string]int64, len(v))
		for k, n := range v {
			out[k] = n
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]int64, len(v))
		for k, raw := range v {
			n, err := toInt64(raw)
			if err != nil {
				return nil, fmt.Errorf("property %s key %s: %w", name, k, err)
			}
			out[k] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("property %s has type %T, not a long map", name, v)
	}
}

// Clone returns a deep copy of the property set.
func (p InstanceProperties) Clone() InstanceProperties {
	if p == nil {
		return nil
	}
	out := make(InstanceProperties, len(p))
	for k, v := range p {
		switch m := v.(type) {
		case map[string]string:
			c := make(map[string]string, len(m))
			for mk, mv := range m {
				c[mk] = mv
			}
			out[k] = c
		case map[string]int64:
			c := make(map[string]int64, len(m))
			for mk, mv := range m {
				c[mk] = mv
			}
			out[k] = c
		case map[string]interface{}:
			c := make(map[string]interface{}, len(m))
			for mk, mv := range m {
				c[mk] = mv
			}
			out[k] = c
		default:
			out[k] = v
		}
	}
	return out
}

// Merge returns stored overlaid with update. Neither input is modified.
func Merge(stored, update InstanceProperties) InstanceProperties {
	out := stored.Clone()
	if out == nil {
		out = NewInstanceProperties()
	}
	for k, v := range update.Clone() {
		out[k] = v
	}
	return out
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("value %v is not an integer", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("value of type %T is not an integer", v)
	}
}
