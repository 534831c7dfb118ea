// Package urlparam edits URL query strings without re-encoding them.
//
// Catalog and WFS servers are picky about parameter order and escaping, so
// these helpers operate on the raw query text: untouched parameters keep
// their original position and spelling. Keys are compared case-insensitively.
package urlparam

import (
	"net/url"
	"strings"
)

// split separates rawURL into base, raw query and fragment (with its '#').
func split(rawURL string) (base, query, fragment string) {
	base = rawURL
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base, fragment = base[:i], base[i:]
	}
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base, query = base[:i], base[i+1:]
	}
	return base, query, fragment
}

func join(base, query, fragment string) string {
	if query == "" {
		return base + fragment
	}
	return base + "?" + query + fragment
}

func keyOf(segment string) string {
	k := segment
	if i := strings.IndexByte(k, '='); i >= 0 {
		k = k[:i]
	}
	if u, err := url.QueryUnescape(k); err == nil {
		k = u
	}
	return strings.ToLower(strings.TrimSpace(k))
}

func valueOf(segment string) string {
	i := strings.IndexByte(segment, '=')
	if i < 0 {
		return ""
	}
	v := segment[i+1:]
	if u, err := url.QueryUnescape(v); err == nil {
		return u
	}
	return v
}

// Strip removes every parameter whose key matches one of keys.
func Strip(rawURL string, keys ...string) string {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[strings.ToLower(k)] = true
	}
	base, query, fragment := split(rawURL)
	if query == "" {
		return rawURL
	}
	kept := make([]string, 0, 8)
	for _, seg := range strings.Split(query, "&") {
		if seg == "" || drop[keyOf(seg)] {
			continue
		}
		kept = append(kept, seg)
	}
	return join(base, strings.Join(kept, "&"), fragment)
}

// Append adds key=value pairs after any existing parameters. Values are
// query-escaped; keys are written as given.
func Append(rawURL string, kv ...string) string {
	base, query, fragment := split(rawURL)
	var b strings.Builder
	b.WriteString(query)
	for i := 0; i+1 < len(kv); i += 2 {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "&") {
			b.WriteByte('&')
		}
		b.WriteString(kv[i])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[i+1]))
	}
	return join(base, b.String(), fragment)
}

// Get returns the unescaped value of the first parameter matching key.
func Get(rawURL, key string) (string, bool) {
	_, query, _ := split(rawURL)
	key = strings.ToLower(key)
	for _, seg := range strings.Split(query, "&") {
		if seg != "" && keyOf(seg) == key {
			return valueOf(seg), true
		}
	}
	return "", false
}

// Has reports whether any parameter matches key.
func Has(rawURL, key string) bool {
	_, ok := Get(rawURL, key)
	return ok
}
