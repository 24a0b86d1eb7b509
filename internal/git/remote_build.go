package git

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/urix"
)

// SSHRemoteURL derives the SSH remote for a web repository URL:
//
//	https://github.com/foo/baz => git@github.com:foo/baz.git
func SSHRemoteURL(u *url.URL) string {
	return fmt.Sprintf("git@%s:%s.git", u.Hostname(), strings.Trim(u.Path, "/"))
}

// githubAPIBase returns the REST API root for a GitHub host.
// github.com uses api.github.com; any other host is treated as GitHub Enterprise.
func githubAPIBase(host string) *url.URL {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" || h == "github.com" || h == "www.github.com" {
		return urix.MustParse("https://api.github.com")
	}
	return &url.URL{Scheme: "https", Host: h, Path: "/api/v3"}
}
