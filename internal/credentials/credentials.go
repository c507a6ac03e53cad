// Package credentials resolves the Reddit account credentials used for a
// download or upload run, either from configuration or by asking the user.
package credentials

import (
	"fmt"

	"github.com/klauern/redditmigrate/internal/config"
	"github.com/klauern/redditmigrate/internal/logging"
	"github.com/klauern/redditmigrate/internal/reddit"
	"github.com/klauern/redditmigrate/internal/ui"
)

// FoundPresetMessage is printed when credentials come from configuration.
const FoundPresetMessage = "Found Reddit account credentials from configuration"

// Prompter is the console capability the provider needs.
type Prompter interface {
	Println(a ...any)
	ReadLine(label string) (string, error)
	ReadPassword(label string) (string, error)
	Confirm(question string) (bool, error)
}

// Provider resolves credentials for an account role.
type Provider struct {
	prompter Prompter
	cfg      *config.Config
}

// NewProvider creates a provider over the accounts configured in cfg.
func NewProvider(p Prompter, cfg *config.Config) *Provider {
	return &Provider{prompter: p, cfg: cfg}
}

// Resolve returns credentials for role. Preset username and password are used
// as is; otherwise the user is asked for them. The role's application key
// must be configured, since no answer at a prompt can supply it.
func (p *Provider) Resolve(role string) (reddit.Credentials, error) {
	acct := p.cfg.Account(role)
	if err := acct.ValidateApplication(role); err != nil {
		return reddit.Credentials{}, err
	}
	if acct.HasPresetCredentials() {
		p.prompter.Println(FoundPresetMessage)
		logging.Debug("using preset credentials", logging.Role(role), logging.Account(acct.Username))
		return credentialsFor(acct), nil
	}
	return p.Prompt(role)
}

// Prompt always asks the user for a username and a confirmed password. The
// password pair is asked again until both entries match or the user gives up,
// in which case ui.ErrAborted is returned.
func (p *Provider) Prompt(role string) (reddit.Credentials, error) {
	acct := p.cfg.Account(role)

	p.prompter.Println()
	p.prompter.Println(fmt.Sprintf("Enter Reddit account credentials for %s:", role))

	username, err := p.prompter.ReadLine("Username")
	if err != nil {
		return reddit.Credentials{}, err
	}

	for {
		password, err := p.prompter.ReadPassword("Password")
		if err != nil {
			return reddit.Credentials{}, err
		}
		confirm, err := p.prompter.ReadPassword("Confirm password")
		if err != nil {
			return reddit.Credentials{}, err
		}
		if password == confirm {
			acct.Username = username
			acct.Password = password
			return credentialsFor(acct), nil
		}

		again, err := p.prompter.Confirm("Passwords don't match. Try again?")
		if err != nil {
			return reddit.Credentials{}, err
		}
		if !again {
			return reddit.Credentials{}, ui.ErrAborted
		}
	}
}

func credentialsFor(acct config.AccountConfig) reddit.Credentials {
	return reddit.Credentials{
		ClientID:     acct.ClientID,
		ClientSecret: acct.ClientSecret,
		Username:     acct.Username,
		Password:     acct.Password,
	}
}
