// Package auth implements password login and stateless session tokens.
//
// A login runs the Verifier first (email lookup plus bcrypt comparison) and
// then asks the Issuer for a signed token whose subject is the account's
// public id. Tokens are never stored; Middleware re-verifies them on each
// protected request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Account is the credential view of a registered user
type Account struct {
	PublicID     string
	Email        string
	PasswordHash string
}

// AccountFinder looks up accounts by login email. Implementations return
// ErrAccountNotFound when no account has the email.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("sima-unknown-account")
	if err != nil {
		return ""
	}
	return hash
})

// Verifier checks login credentials against the account store
type Verifier struct {
	accounts AccountFinder
}

// NewVerifier creates a Verifier backed by accounts
func NewVerifier(accounts AccountFinder) *Verifier {
	return &Verifier{accounts: accounts}
}

// Verify returns the account whose email and password match.
func (v *Verifier) Verify(ctx context.Context, email, password string) (*Account, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	// bcrypt only compares the first MaxPasswordLen bytes, and no stored
	// password is longer than that.
	if len(password) > MaxPasswordLen {
		CheckPassword(dummyHash(), password[:MaxPasswordLen])
		return nil, ErrInvalidCredentials
	}

	account, err := v.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			CheckPassword(dummyHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !CheckPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}
