package metadata

import (
	"strconv"
	"strings"
)

// AsList flattens a node that may be a bare value or a list of values.
// Absent or empty nodes yield an empty slice.
func AsList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []map[string]any:
		out := make([]any, 0, len(t))
		for _, m := range t {
			out = append(out, m)
		}
		return out
	case []string:
		out := make([]any, 0, len(t))
		for _, s := range t {
			out = append(out, s)
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
	case bool:
		if !t {
			return nil
		}
	case map[string]any:
		if len(t) == 0 {
			return nil
		}
	}
	return []any{v}
}

// AsText returns the plain string carried by a node. Localized-text wrappers
// (gco:CharacterString, or a generic #text field) are unwrapped; anything
// else that is not a scalar degrades to "".
func AsText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		if s, ok := lookup(t, "CharacterString"); ok {
			return AsText(s)
		}
		if s, ok := t[textKey]; ok {
			return AsText(s)
		}
		return ""
	case []any:
		for _, it := range t {
			if s := AsText(it); s != "" {
				return s
			}
		}
		return ""
	default:
		return ""
	}
}

// Get returns the child named key of a map node, or nil. Keys match with or
// without a namespace prefix, so "onLine" finds "gmd:onLine" and the other
// way round.
func Get(v any, key string) any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	child, _ := lookup(m, key)
	return child
}

// Path follows keys from v, flattening every intermediate step with AsList.
// All nodes reachable through the path are returned in document order.
func Path(v any, keys ...string) []any {
	nodes := AsList(v)
	for _, k := range keys {
		var next []any
		for _, n := range nodes {
			next = append(next, AsList(Get(n, k))...)
		}
		nodes = next
		if len(nodes) == 0 {
			return nil
		}
	}
	return nodes
}

func lookup(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	want := localName(key)
	for k, v := range m {
		if localName(k) == want {
			return v, true
		}
	}
	return nil, false
}

func localName(key string) string {
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}
