// Package auth implements the OAuth authorization-code-with-PKCE flow
// against the Spotify accounts service.
//
// The flow is two-phase with a full browser round trip in between: BeginLogin
// generates a one-time code verifier, persists it, and produces the
// /authorize URL; CompleteLogin reads the persisted verifier back and posts
// the form-encoded token exchange. No client secret is involved and no
// refresh token is requested — an expired token forces a full re-login.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/sonicmood/sonicmood/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// RFC 7636 permits 43-128 chars; the longest verifier is used.
	verifierLength   = 128
	verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Scopes is the fixed scope set requested at authorization: profile read,
// playlist read/write, and top-items read for recommendation seeding.
var Scopes = []string{
	"user-read-private",
	"user-read-email",
	"playlist-read-private",
	"playlist-modify-public",
	"playlist-modify-private",
	"user-top-read",
}

// TokenExchangeError reports a non-success response from the token endpoint.
// The caller must clear any partial session and force a re-login.
type TokenExchangeError struct {
	Status int
	Body   string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed: status %d: %s", e.Status, e.Body)
}

// VerifierSource stores the single pending code verifier across the
// authorize redirect. Load returns [shared.ErrMissingVerifier] when nothing
// is pending.
type VerifierSource interface {
	Save(verifier string) error
	Load() (string, error)
	Clear() error
}

// FlowOpts configures a [Flow].
type FlowOpts struct {
	ClientID    string
	RedirectURI string
	Verifiers   VerifierSource

	// AuthURL and TokenURL override the Spotify endpoints, for tests.
	AuthURL  string
	TokenURL string
}

// Flow drives the PKCE authorization sequence.
type Flow struct {
	config    *oauth2.Config
	verifiers VerifierSource
}

// NewFlow creates a Flow for the given application identity.
func NewFlow(opts FlowOpts) (*Flow, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: client id", shared.ErrMissingCredentials)
	}
	if opts.Verifiers == nil {
		return nil, fmt.Errorf("%w: verifier store is required", shared.ErrInvalidArgument)
	}

	authURL := opts.AuthURL
	if authURL == "" {
		authURL = spotifyAuthURL
	}
	tokenURL := opts.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}

	config := &oauth2.Config{
		ClientID:    opts.ClientID,
		RedirectURL: opts.RedirectURI,
		Scopes:      Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
			// Without a client secret the client_id must travel in the
			// form body, so auto-detection must not probe header auth.
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return &Flow{config: config, verifiers: opts.Verifiers}, nil
}

// BeginLogin generates and persists a fresh verifier and returns the
// /authorize URL the browser must visit: response_type=code, the S256
// challenge derived from the verifier, and the fixed redirect URI and scopes.
func (f *Flow) BeginLogin(state string) (string, error) {
	verifier, err := generateVerifier()
	if err != nil {
		return "", err
	}

	if err := f.verifiers.Save(verifier); err != nil {
		return "", fmt.Errorf("failed to persist verifier: %w", err)
	}

	return f.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// CompleteLogin exchanges an authorization code for a bearer access token
// using the pending verifier.
//
// Fails with [shared.ErrMissingVerifier] when no verifier is pending (for
// example, storage was cleared between redirect and return); fails with a
// [*TokenExchangeError] on a non-success token response. The verifier is
// consumed either way — authorization codes are single-use, so a retry must
// restart the whole flow.
func (f *Flow) CompleteLogin(ctx context.Context, code string) (string, error) {
	verifier, err := f.verifiers.Load()
	if err != nil {
		return "", err
	}
	defer f.verifiers.Clear()

	token, err := f.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", &TokenExchangeError{Status: re.Response.StatusCode, Body: string(re.Body)}
		}
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return token.AccessToken, nil
}

// Challenge derives the base64url-encoded, unpadded SHA-256 challenge for a
// verifier. Exposed for the authorize URL assertions in tests.
func Challenge(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// generateVerifier produces a random alphanumeric verifier of the maximum
// permitted length.
func generateVerifier() (string, error) {
	max := big.NewInt(int64(len(verifierAlphabet)))
	b := make([]byte, verifierLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate verifier: %w", err)
		}
		b[i] = verifierAlphabet[n.Int64()]
	}
	return string(b), nil
}
