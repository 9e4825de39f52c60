// Package server provides HTTP routing and the loopback OAuth callback used by the CLI login flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [CallbackHandler] receives the authorization-code redirect from the Spotify
// accounts service. It validates the state parameter (CSRF protection), hands
// the code to a [TokenExchanger] — whose one-shot guard ensures the exchange
// hits the token endpoint exactly once even if the callback fires twice —
// and sends the result through a channel.
//
// # Current Usage
//
// When the user runs `sonicmood auth login`, a temporary HTTP server starts
// on the configured loopback address (the redirect URI registered with the
// Spotify app must match exactly), handles one callback, and shuts down
// after the result is delivered or a timeout elapses.
package server
