package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sonicmood/sonicmood/internal/auth"
	"github.com/sonicmood/sonicmood/internal/server"
	"github.com/sonicmood/sonicmood/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin performs the PKCE authorization flow.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// exchanges the auth code for a token which is saved to the session store.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.ValidateCredentials(); err != nil {
		return err
	}

	verifiers, err := auth.DefaultVerifierStore()
	if err != nil {
		return fmt.Errorf("failed to locate verifier store: %w", err)
	}

	flow, err := auth.NewFlow(auth.FlowOpts{
		ClientID:    r.config.Credentials.Spotify.ClientID,
		RedirectURI: r.config.RedirectURI(),
		Verifiers:   verifiers,
	})
	if err != nil {
		return err
	}

	token, err := r.doOAuth(ctx, flow)
	if err != nil {
		return err
	}

	if err := r.store.SetToken(token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("You can now use: sonicmood sync\n")

	return nil
}

// doOAuth runs the loopback-server authorization dance and returns the
// exchanged access token.
func (r *Runner) doOAuth(ctx context.Context, flow *auth.Flow) (string, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL, err := flow.BeginLogin(state)
	if err != nil {
		return "", err
	}

	handler := server.NewCallbackHandler(auth.NewExchanger(flow), state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.AuthResult

	select {
	case result = <-handler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return "", fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == "" {
		return "", fmt.Errorf("no token received")
	}

	return result.Token, nil
}

// AuthLogout clears the saved session and cached results.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.store.Reset(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if verifiers, err := auth.DefaultVerifierStore(); err == nil {
		if err := verifiers.Clear(); err != nil {
			r.logger.Warn("failed to clear verifier cache", "error", err)
		}
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthStatus checks the current authentication state against the live API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if !r.store.Authenticated() {
		r.writePlain("Authentication: ✗ Not authenticated\n")
		r.writePlain("Run 'sonicmood auth login' to connect your Spotify account.\n")
		return nil
	}

	if r.music == nil {
		return fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}

	profile, err := r.music.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrTokenExpired) {
			r.writePlain("Authentication: ✗ Session expired\n")
			r.writePlain("Run 'sonicmood auth login' to reconnect.\n")
			return nil
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("Authentication: ✓ Authenticated\n")
	if profile.DisplayName != "" {
		r.writePlain("Account: %s (%s)\n", profile.DisplayName, profile.ID)
	} else {
		r.writePlain("Account: %s\n", profile.ID)
	}
	return nil
}
