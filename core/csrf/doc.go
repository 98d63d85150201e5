// Package csrf holds the request-side protection logic: configuration,
// GET-validation rules, the request validator and the failure action
// vocabulary.
//
// The validator answers three questions about an incoming request, in order:
//
//   - Ignored: does the path match the static-asset ignore pattern?
//   - Required: is this a POST, or a GET matching a configured rule?
//   - Validate: does the supplied token match the one stored for the
//     request's session?
//
// # Basic Usage
//
//	import (
//		"github.com/dmitrymomot/csrfkit/core/csrf"
//		"github.com/dmitrymomot/csrfkit/core/token"
//	)
//
//	manager, _ := token.NewManager(token.NewMemoryStore())
//
//	cfg := csrf.DefaultConfig()
//	cfg.VerifyGetFor = []string{"https?://example.com/account/.*"}
//
//	validator, err := csrf.NewValidator(cfg, manager)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if validator.Required(r) && !validator.Ignored(r) {
//		if err := validator.Validate(r.Context(), r); err != nil {
//			// reject per the configured csrf.Action
//		}
//	}
//
// # Configuration
//
// Config is environment-taggable and defaults to the original OWASP module
// directive defaults. Token lengths below token.MinTokenLength, empty token
// names and non-compiling patterns are rejected by Validate at load time;
// callers should keep their previous (or default) configuration when that
// happens rather than running unprotected.
//
// The middleware package wires the validator, the failure actions and the
// response rewriter into a net/http middleware.
package csrf
