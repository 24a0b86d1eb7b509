// Package git provisions GitHub repositories and initializes local working copies.
package git

const (
	// GitBinary and GitHubBinary are the executables the package shells out to.
	GitBinary    = "git"
	GitHubBinary = "gh"

	// DefaultBranch is the initial branch of locally initialized repositories.
	DefaultBranch = "main"

	githubAPIVersion = "2022-11-28"
)
