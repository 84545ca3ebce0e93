package cache

import "net/url"

// safe escapes a key segment so that ':' and whitespace cannot split or merge keys.
// The escaping is injective, so distinct inputs never share a key.
func safe(s string) string {
	return url.QueryEscape(s)
}
