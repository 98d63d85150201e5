// Package middleware provides net/http middleware that enforces CSRF
// protection transparently: it validates incoming tokens, rewrites HTML
// responses to bootstrap the client-side script, and rotates the token
// cookies on every protected response.
//
// # Basic Usage
//
//	import (
//		"net/http"
//
//		"github.com/dmitrymomot/csrfkit/core/token"
//		"github.com/dmitrymomot/csrfkit/middleware"
//	)
//
//	manager, err := token.NewManager(token.NewMemoryStore())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/", homeHandler)
//
//	protected := middleware.CSRF(manager)(mux)
//	http.ListenAndServe(":8080", protected)
//
// # Custom Configuration
//
//	cfg := csrf.DefaultConfig()
//	cfg.Action = csrf.ActionRedirect
//	cfg.RedirectURL = "https://example.com/blocked"
//	cfg.VerifyGetFor = []string{"https?://example.com/account/.*"}
//
//	protected := middleware.CSRFWithConfig(cfg, manager, logger)(mux)
//
// Or load the configuration from the environment:
//
//	var cfg csrf.Config
//	config.MustLoad(&cfg)
//	protected := middleware.CSRFWithConfig(cfg, manager, logger)(mux)
//
// # Request Flow
//
// Every POST request, and every GET request matching a configured
// verification rule, must carry a token in the query string or in a request
// header named after the token cookie. The token is compared against the
// stored value for the session identified by the CSRFPSESSID cookie.
// Requests for static assets matching the ignore pattern bypass the
// middleware entirely.
//
// On failure the configured action runs: forbid (default), strip the request
// of its parameters and proceed, redirect, serve an error page, or return an
// internal server error. Failures are logged before the action runs, so an
// attack report is produced even when the request is allowed to continue.
//
// # Response Rewriting
//
// HTML responses passing through the middleware receive two injections: a
// <noscript> warning right after the opening <body> tag, and a script block
// right after the closing </body> tag that loads the client-side library and
// hands it the token name and GET verification rules. Content-Length is
// adjusted for the inserted bytes, or dropped in favor of chunked transfer
// encoding when configured. Non-HTML responses pass through untouched.
//
// # Handlers
//
// Handlers can check whether the current request actually passed token
// validation:
//
//	func transferHandler(w http.ResponseWriter, r *http.Request) {
//		if !middleware.Validated(r.Context()) {
//			// request was not subject to validation
//		}
//		// ...
//	}
package middleware
