package credentials

import (
	"fmt"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/logx"
	"github.com/iflowkit/iflowkit-scaffold/internal/models"
	"github.com/iflowkit/iflowkit-scaffold/internal/prompt"
)

type tokenHelp struct {
	service string
	url     string
	extra   []string
}

var help = map[models.TokenID]tokenHelp{
	models.TokenGitHub: {
		service: "GitHub",
		url:     "https://github.com/settings/tokens/new?scopes=repo",
		extra:   []string{"When creating a private repository, the token must have scope " + prompt.Comment("repo") + ", otherwise " + prompt.Comment("public_repo") + "."},
	},
	models.TokenCodeClimate: {
		service: "CodeClimate",
		url:     "https://codeclimate.com/profile/tokens",
	},
	models.TokenCoveralls: {
		service: "Coveralls",
		url:     "https://coveralls.io/account",
	},
}

// Authenticator obtains tokens interactively when the Store has none.
type Authenticator struct {
	store *Store
	io    *prompt.IO
	lg    *logx.Logger
}

func NewAuthenticator(store *Store, io *prompt.IO, lg *logx.Logger) *Authenticator {
	if lg == nil {
		lg = logx.Nop()
	}
	return &Authenticator{store: store, io: io, lg: lg}
}

// Ensure returns the token for id, asking the operator for it when neither
// the cache nor the environment provides one.
func (a *Authenticator) Ensure(id models.TokenID) (string, error) {
	if t, ok := a.store.Get(id); ok {
		return t, nil
	}

	h, ok := help[id]
	if !ok {
		h = tokenHelp{service: string(id)}
	}
	a.lg.Info("access token prompt", logx.F("provider", string(id)), logx.F("env", id.EnvVar()))

	lines := []string{fmt.Sprintf("Requests to %s API must be authorized by an access token.", h.service)}
	lines = append(lines, h.extra...)
	if h.url != "" {
		lines = append(lines, fmt.Sprintf("Please create your token at %s.", h.url))
	}
	a.io.Write(lines...)
	a.io.NewLine()

	token, err := a.io.AskRequired("Please insert your access token")
	if err != nil {
		return "", fmt.Errorf("%s access token: %w", h.service, err)
	}
	a.store.Set(id, token)
	return token, nil
}
