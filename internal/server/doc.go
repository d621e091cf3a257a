// Package server provides HTTP routing, middleware, and OAuth callback handling for the CLI.
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
// [OAuthHandler] receives the OAuth2 authorization code redirect.
//
// State validation and the code exchange live in the auth manager behind the
// [RedirectHandler] interface; the handler only rebuilds the callback URL,
// forwards it, and reports the outcome through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Current Usage
//
// When the user runs `recordium spotify auth`, a temporary HTTP server starts
// on the configured localhost port, handles the callback, and shuts down
// after receiving the OAuth token.
package server
