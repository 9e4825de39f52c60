package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/sonicmood/sonicmood/internal/shared"
)

// AuthResult contains the result of the PKCE authorization flow: either a
// bearer access token or the error that ended the flow.
type AuthResult struct {
	Token string
	err   error
}

func (a *AuthResult) Error() error {
	return a.err
}

// TokenExchanger runs the code-for-token exchange. Implemented by
// [auth.Exchanger], which enforces the exchange runs exactly once.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
}

// CallbackHandler handles the OAuth redirect landing on the loopback server.
// Implements the [Handler] interface for registration with a [Router].
type CallbackHandler struct {
	exchanger   TokenExchanger
	state       string
	resultChan  chan AuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a new callback handler with the given exchanger
// and state token. The state token should be cryptographically random for
// CSRF protection.
func NewCallbackHandler(exchanger TokenExchanger, state string) *CallbackHandler {
	return &CallbackHandler{
		exchanger:  exchanger,
		state:      state,
		resultChan: make(chan AuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the OAuth callback request.
//
// Validates the state parameter, runs the token exchange through the
// one-shot exchanger, and sends the result through the result channel.
// A second hit on the callback is rejected outright.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.Send(AuthResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		err := fmt.Errorf("authorization failed: %s - %s", errParam, errDesc)
		h.Send(AuthResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		h.Send(AuthResult{err: err})
		if errors.Is(err, shared.ErrMissingVerifier) {
			http.Error(w, "Login session expired, please start over", http.StatusBadRequest)
		} else {
			http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		}
		return
	}

	h.Send(AuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send sends the auth result through the channel (only once).
func (h *CallbackHandler) Send(result AuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan AuthResult {
	return h.resultChan
}
