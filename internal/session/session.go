// Package session opens authenticated Reddit sessions, giving the user a
// chance to re-enter credentials when Reddit rejects them.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/klauern/redditmigrate/internal/logging"
	"github.com/klauern/redditmigrate/internal/reddit"
	"github.com/klauern/redditmigrate/internal/ui"
)

// RetryQuestion is asked after Reddit rejects the credentials.
const RetryQuestion = "Error: Authentication failed. Would you like to try entering your Reddit account credentials again?"

// CredentialSource supplies credentials for an account role.
type CredentialSource interface {
	// Resolve returns the preset or prompted credentials for role.
	Resolve(role string) (reddit.Credentials, error)
	// Prompt always asks the user.
	Prompt(role string) (reddit.Credentials, error)
}

// Session is an authenticated client bound to one account.
type Session struct {
	Client  *reddit.Client
	Account string
	Role    string
}

// Factory opens sessions.
type Factory struct {
	credentials CredentialSource
	confirmer   ui.Confirmer
	options     reddit.Options
}

// NewFactory creates a session factory. opts is passed to reddit.Authenticate.
func NewFactory(creds CredentialSource, confirmer ui.Confirmer, opts reddit.Options) *Factory {
	return &Factory{credentials: creds, confirmer: confirmer, options: opts}
}

// Open authenticates the account for role and verifies it by fetching the
// account identity. Authentication failures ask the user whether to retry
// with new credentials; a "no" returns ui.ErrAborted. Any other failure is
// returned without retrying.
func (f *Factory) Open(ctx context.Context, role string) (*Session, error) {
	creds, err := f.credentials.Resolve(role)
	if err != nil {
		return nil, err
	}

	for {
		s, err := f.open(ctx, role, creds)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, reddit.ErrAuthentication) {
			return nil, fmt.Errorf("failed to connect %s account: %w", role, err)
		}

		logging.WithContext(ctx).Warn("authentication failed", logging.Role(role), logging.Err(err))

		again, err := f.confirmer.Confirm(RetryQuestion)
		if err != nil {
			return nil, err
		}
		if !again {
			return nil, ui.ErrAborted
		}
		if creds, err = f.credentials.Prompt(role); err != nil {
			return nil, err
		}
	}
}

func (f *Factory) open(ctx context.Context, role string, creds reddit.Credentials) (*Session, error) {
	client, err := reddit.Authenticate(ctx, creds, f.options)
	if err != nil {
		return nil, err
	}
	me, err := client.Me(ctx)
	if err != nil {
		return nil, err
	}

	logging.WithContext(ctx).Info("authenticated", logging.Role(role), logging.Account(me.Name))
	return &Session{Client: client, Account: me.Name, Role: role}, nil
}
