package auth

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ActivationMailSubject is the subject line of the activation email.
const ActivationMailSubject = "Account Activation"

// ActivationMailTemplate names the template rendered into the activation
// email body.
const ActivationMailTemplate = "activationMail"

// Accounts sequences the activation and session lifecycle: it is the only
// component that knows the codec, hasher, issuer, store, and mailer at once.
type Accounts struct {
	store  UserStore
	codec  ActivationCodec
	hasher PasswordHasher
	issuer SessionOpener
	mailer Mailer
	logger Logger
}

// NewAccounts wires the orchestrator. All collaborators are required except
// the logger, which defaults.
func NewAccounts(store UserStore, codec ActivationCodec, hasher PasswordHasher, issuer SessionOpener, mailer Mailer) *Accounts {
	return &Accounts{
		store:  store,
		codec:  codec,
		hasher: hasher,
		issuer: issuer,
		mailer: mailer,
		logger: defLogger{},
	}
}

func (a *Accounts) WithLogger(logger Logger) *Accounts {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Register checks that the email is free, mints an activation ticket for the
// pending registration, and dispatches the activation email. The password is
// carried raw inside the signed ticket and is not hashed until activation.
// A failed email send aborts the registration: the caller must never believe
// a code is on its way when it is not.
func (a *Accounts) Register(ctx context.Context, pending PendingRegistration) (string, error) {
	if pending.Name == "" || pending.Password == "" || !ValidEmail(pending.Email) {
		return "", ErrInvalidData
	}

	if _, err := a.store.ByEmail(ctx, pending.Email); err == nil {
		return "", ErrDuplicateAccount
	} else if !errors.Is(err, ErrIdentityNotFound) {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
	}

	token, code, err := a.codec.Issue(pending)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue activation ticket")
	}

	mail := Mail{
		To:       pending.Email,
		Subject:  ActivationMailSubject,
		Template: ActivationMailTemplate,
		Data: map[string]any{
			"user":           map[string]any{"name": pending.Name},
			"activationCode": code,
		},
	}

	if err := a.mailer.Send(ctx, mail); err != nil {
		a.logger.Error("activation email dispatch failed for %s: %v", pending.Email, err)
		return "", ErrDeliveryFailed
	}

	return token, nil
}

// Activate verifies the ticket and confirmation code, hashes the password,
// and inserts the account. Verification failures map one-to-one onto the
// codec's errors. The insert is where the duplicate-email race between two
// concurrently issued tickets resolves: the store's unique constraint is
// authoritative, and the loser gets ErrDuplicateAccount here rather than at
// token issuance.
func (a *Accounts) Activate(ctx context.Context, token, code string) (*User, error) {
	pending, err := a.codec.Verify(token, code)
	if err != nil {
		return nil, err
	}

	hash, err := a.hasher.Hash(pending.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user, err := a.store.Register(ctx, &User{
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: hash,
		Role:         RoleUser,
		IsVerified:   true,
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and opens a session. A missing account and a
// wrong password produce the same ErrInvalidCredentials value so responses
// cannot be used to probe which emails have accounts.
func (a *Accounts) Login(ctx context.Context, email, password string) (*User, SessionTokens, error) {
	user, err := a.store.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, SessionTokens{}, ErrInvalidCredentials
		}
		return nil, SessionTokens{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during login")
	}

	if err := a.hasher.Compare(password, user.PasswordHash); err != nil {
		return nil, SessionTokens{}, ErrInvalidCredentials
	}

	tokens, err := a.issuer.OpenSession(ctx, user)
	if err != nil {
		return nil, SessionTokens{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open session")
	}

	return user, tokens, nil
}

// RevokeSession drops the cached session snapshot for the user. Logout only
// clears cookies; this hook is for deployments that want the server side
// closed too.
func (a *Accounts) RevokeSession(ctx context.Context, userID string) error {
	return a.issuer.RevokeSession(ctx, userID)
}
