package urix

import (
	"net/url"
	"regexp"
	"strings"
)

var pathParam = regexp.MustCompile(`\{(\w+)\}`)

// MergePath appends p to the path of base and interpolates {name} placeholders
// with params. Unknown placeholders become empty. Parameter values are
// inserted verbatim, so "owner/name" slugs keep their slash.
func MergePath(base *url.URL, p string, params map[string]string) *url.URL {
	u := *base
	merged := strings.TrimRight(base.Path, "/") + "/" + strings.TrimLeft(p, "/")
	if decoded, err := url.PathUnescape(merged); err == nil {
		merged = decoded
	}
	if len(params) > 0 {
		merged = InterpolatePathParameters(merged, params)
	}
	u.Path = merged
	u.RawPath = ""
	return &u
}

// InterpolatePathParameters replaces {name} placeholders in p.
func InterpolatePathParameters(p string, params map[string]string) string {
	return pathParam.ReplaceAllStringFunc(p, func(m string) string {
		return params[m[1:len(m)-1]]
	})
}

// MergeQueryParams adds params to the query of base, overriding existing keys.
func MergeQueryParams(base *url.URL, params map[string]string) *url.URL {
	u := *base
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return &u
}

// MustParse parses a constant base URL.
func MustParse(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}
