package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Repository describes the remote repository to provision for a generated project.
// It is immutable once constructed.
type Repository struct {
	owner       string
	name        string
	url         *url.URL
	description string
	private     bool
}

// NewRepository validates its input and returns a Repository.
// owner and name must be non-empty and rawURL must be an absolute URL.
func NewRepository(owner, name, rawURL, description string, private bool) (Repository, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if owner == "" {
		return Repository{}, fmt.Errorf("repository owner is empty")
	}
	if name == "" {
		return Repository{}, fmt.Errorf("repository name is empty")
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Repository{}, fmt.Errorf("invalid repository url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return Repository{}, fmt.Errorf("repository url must be absolute: %q", rawURL)
	}
	return Repository{owner: owner, name: name, url: u, description: description, private: private}, nil
}

func (r Repository) Owner() string       { return r.owner }
func (r Repository) Name() string        { return r.name }
func (r Repository) Description() string { return r.description }
func (r Repository) Private() bool       { return r.private }

// URL returns a copy, so callers cannot mutate the descriptor.
func (r Repository) URL() *url.URL {
	if r.url == nil {
		return &url.URL{}
	}
	u := *r.url
	return &u
}

// FullName returns "owner/name".
func (r Repository) FullName() string { return r.owner + "/" + r.name }

func (r Repository) String() string { return r.FullName() }
