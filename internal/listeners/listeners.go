// Package listeners provisions remote and local repositories while a project
// is scaffolded.
package listeners

import (
	"context"
	"errors"

	"github.com/iflowkit/iflowkit-scaffold/internal/models"
	"github.com/iflowkit/iflowkit-scaffold/internal/prompt"
)

// ErrInvalidTemplateVariable reports a missing or malformed repository
// variable. It is a project configuration error.
var ErrInvalidTemplateVariable = errors.New("invalid template variable")

// Provider creates a remote resource for a repository.
type Provider interface {
	Name() string
	// Credential names the token Create needs and whether it must be
	// acquired before calling it.
	Credential() (models.TokenID, bool)
	Create(ctx context.Context, repo models.Repository) (models.CreateOutcome, error)
}

// Authenticator acquires a token, prompting the operator if needed.
type Authenticator interface {
	Ensure(id models.TokenID) (string, error)
}

// LocalInitializer prepares a local working copy.
type LocalInitializer interface {
	IsAvailable() bool
	InitializeRepository(ctx context.Context, repo models.Repository, dir string) (models.InitOutcome, error)
}

func authorize(auth Authenticator, p Provider) error {
	id, needed := p.Credential()
	if !needed || auth == nil {
		return nil
	}
	_, err := auth.Ensure(id)
	return err
}

// render completes a progress line with the outcome.
func render(io *prompt.IO, out models.CreateOutcome) {
	switch out {
	case models.Created:
		io.Done()
	case models.AlreadyExists:
		io.Skipped("Already exists")
	default:
		io.Failed()
	}
}
