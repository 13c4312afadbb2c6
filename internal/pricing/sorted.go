package pricing

import (
	"bytes"
	"encoding/json"
	"sort"
)

// SortedMap is a read-only string-keyed map whose keys are kept in ascending byte order.
// It encodes to a JSON object in that order.
type SortedMap[V any] struct {
	keys   []string
	values map[string]V
}

func sortedFrom[V any](src map[string]V) SortedMap[V] {
	keys := make([]string, 0, len(src))
	values := make(map[string]V, len(src))
	for k, v := range src {
		keys = append(keys, k)
		values[k] = v
	}
	sort.Strings(keys)
	return SortedMap[V]{keys: keys, values: values}
}

// Keys returns a copy of the keys in ascending order.
func (m SortedMap[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get looks up a key.
func (m SortedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of keys.
func (m SortedMap[V]) Len() int {
	return len(m.keys)
}

// Each visits every key in order.
func (m SortedMap[V]) Each(fn func(key string, value V)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

func (m SortedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
