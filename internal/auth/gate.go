package auth

import (
	"errors"

	"github.com/cloodio/secchat/backend/internal/model/identity"
)

var (
	ErrUntrustedProvider = errors.New("untrusted identity provider")
	ErrMissingClaims     = errors.New("no provider claims supplied")
	ErrNoIdentifier      = errors.New("claims resolve to no identifier")
)

// Microsoft Graph claim names delivered by the provider.
const (
	claimPrincipalName = "userPrincipalName"
	claimMail          = "mail"
	claimObjectID      = "id"
	claimDisplayName   = "displayName"
)

// Gate maps sign-in assertions from the single trusted identity provider to
// internal user records. Token signatures are verified upstream at the
// transport boundary; the gate validates claim shape only.
type Gate struct {
	provider string
}

// NewGate builds a gate trusting exactly one provider id.
func NewGate(provider string) *Gate {
	return &Gate{provider: provider}
}

// Authenticate resolves provider claims to a user identity or rejects the
// sign-in. The identifier is taken from the first non-empty claim among
// userPrincipalName, mail and id.
func (g *Gate) Authenticate(providerID, accessToken string, rawClaims map[string]string, idToken string) (identity.User, error) {
	if providerID != g.provider {
		return identity.User{}, ErrUntrustedProvider
	}

	if len(rawClaims) == 0 {
		return identity.User{}, ErrMissingClaims
	}

	identifier := firstNonEmpty(
		rawClaims[claimPrincipalName],
		rawClaims[claimMail],
		rawClaims[claimObjectID],
	)
	if identifier == "" {
		return identity.User{}, ErrNoIdentifier
	}

	displayName := rawClaims[claimDisplayName]
	if displayName == "" {
		displayName = identifier
	}

	return identity.User{
		Identifier:     identifier,
		DisplayName:    displayName,
		Email:          rawClaims[claimMail],
		Provider:       g.provider,
		ProviderUserID: rawClaims[claimObjectID],
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
