package models

import "strings"

// CreateOutcome is the result of one attempt to create a remote resource.
type CreateOutcome int

const (
	Created CreateOutcome = iota + 1
	AlreadyExists
	Failed
)

func (o CreateOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already_exists"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// InitOutcome is the result of initializing a local working copy.
type InitOutcome int

const (
	Initialized InitOutcome = iota + 1
	InitFailed
)

func (o InitOutcome) String() string {
	switch o {
	case Initialized:
		return "initialized"
	case InitFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TokenID keys the credential cache. One token per provider.
type TokenID string

const (
	TokenGitHub      TokenID = "github"
	TokenCodeClimate TokenID = "codeclimate"
	TokenCoveralls   TokenID = "coveralls"
)

// EnvVar returns the environment variable consulted when the token is not cached.
func (id TokenID) EnvVar() string {
	return strings.ToUpper(string(id) + "_token")
}
