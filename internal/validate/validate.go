package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var slugRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,99}$`)

// Slug validates a GitHub owner or repository name.
func Slug(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) != s || s == "" {
			return fmt.Errorf("%s must not be empty and must not contain leading/trailing spaces", field)
		}
		if strings.ContainsAny(s, "/\\") {
			return fmt.Errorf("%s must not contain path separators", field)
		}
		if s == "." || s == ".." || strings.Contains(s, "..") {
			return fmt.Errorf("%s must not contain '..'", field)
		}
		if !slugRe.MatchString(s) {
			return fmt.Errorf("%s must match %s", field, slugRe.String())
		}
		return nil
	}
}

func RequiredNonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func URLWithSchemeHost(field string) func(string) error {
	return func(s string) error {
		u, err := url.Parse(s)
		if err != nil {
			return fmt.Errorf("%s is not a valid URL: %w", field, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must include scheme and host", field)
		}
		return nil
	}
}

// OptionalURL accepts an empty value or a URL with scheme and host.
func OptionalURL(field string) func(string) error {
	check := URLWithSchemeHost(field)
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return check(s)
	}
}

func IntInSet(field string, allowed ...int) func(int) error {
	return func(v int) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("%s must be one of %v", field, allowed)
	}
}

func LogFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid --log-format %q (allowed: text|json)", format)
	}
}
