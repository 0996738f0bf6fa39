package ticket

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// UserData is flattened user input: trimmed keys mapped to trimmed strings.
type UserData map[string]string

// Lookup reports the value stored for key. It is the only way the renderer
// reads user data; a missing key is an ordinary outcome, never an error.
func (u UserData) Lookup(key string) (string, bool) {
	v, ok := u[key]
	return v, ok
}

// Get returns the value for key, or "" when it is absent.
func (u UserData) Get(key string) string {
	return u[key]
}

// Flatten unwraps {"value": ..., "enabled": ...} entries, drops those with
// enabled set to false, and normalizes everything else to trimmed strings.
// A null value becomes "". When several keys trim to the same key, a key
// that needed no trimming wins; otherwise the first in sorted order does.
func Flatten(raw map[string]any) UserData {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(UserData, len(raw))
	exact := make(map[string]bool, len(raw))
	for _, k := range keys {
		v := raw[k]
		if w, ok := v.(map[string]any); ok {
			if enabled, ok := w["enabled"]; ok && !truthy(enabled) {
				continue
			}
			v = w["value"]
		}
		key := strings.TrimSpace(k)
		isExact := key == k
		if _, seen := out[key]; seen && (exact[key] || !isExact) {
			continue
		}
		out[key] = strings.TrimSpace(scalar(v))
		exact[key] = isExact
	}
	return out
}

// DecodeUserData parses a JSON object of user data, keeping numbers in their
// literal form.
func DecodeUserData(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	}
	return true
}

// HasContent reports whether any value is non-empty.
func (u UserData) HasContent() bool {
	for _, v := range u {
		if v != "" {
			return true
		}
	}
	return false
}
