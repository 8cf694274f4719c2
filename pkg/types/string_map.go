package types

// StringMap is a key-to-string mapping serialized as a jsonb object. Product
// aiFeatures use it to keep vision-model attributes queryable by key.
type StringMap map[string]string

// Get returns the value for key or the empty string.
func (m StringMap) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// Merge copies entries from other into the map, overwriting existing keys.
func (m StringMap) Merge(other StringMap) StringMap {
	if len(other) == 0 {
		return m
	}
	out := StringMap{}
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
