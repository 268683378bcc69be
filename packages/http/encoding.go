package http

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

// queryAllowed reports whether c may appear unescaped in a URL query.
// The set is alphanumerics plus !$&'()*+,-./:;=?@_~
func queryAllowed(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/', ':', ';', '=', '?', '@', '_', '~':
		return true
	}
	return false
}

// queryItemAllowed is queryAllowed without the query item separators.
// '+' is escaped as well since servers read it back as a space.
func queryItemAllowed(c byte) bool {
	switch c {
	case '&', '=', '+':
		return false
	}
	return queryAllowed(c)
}

func percentEncode(s string, allowed func(byte) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if allowed(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// encodeTarget percent-encodes a raw target for use as a URL. Only invalid
// UTF-8 makes this fail.
func encodeTarget(raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", ErrBadURL
	}
	return percentEncode(raw, queryAllowed), nil
}

// encodeQuery renders params as a query string with one item per key,
// sorted by key. A nil value renders as an empty value.
func encodeQuery(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]string, 0, len(keys))
	for _, k := range keys {
		items = append(items, percentEncode(k, queryItemAllowed)+"="+percentEncode(queryValue(params[k]), queryItemAllowed))
	}
	// a literal '+' in the query is decoded as a space by most servers
	return strings.ReplaceAll(strings.Join(items, "&"), "+", "%2B")
}

func queryValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// ProcessLocale returns the locale identifier of the running process,
// e.g. "en_US", from LC_ALL, LC_MESSAGES or LANG.
func ProcessLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return normalizeLocale(v)
		}
	}
	return "en"
}

func normalizeLocale(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return "en"
	}
	return v
}

// languageIdentifier returns the two letter language of locale, or the whole
// identifier when it is shorter than that.
func languageIdentifier(locale string) string {
	if len(locale) >= 2 {
		return locale[:2]
	}
	return locale
}
