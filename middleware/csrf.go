package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/csrfkit/core/csrf"
	"github.com/dmitrymomot/csrfkit/core/logger"
	"github.com/dmitrymomot/csrfkit/core/rewrite"
	"github.com/dmitrymomot/csrfkit/core/token"
)

type contextKey struct{ name string }

var validatedKey = &contextKey{"csrf_validated"}

// Validated reports whether the request passed token validation. It returns
// false for requests that were not required to carry a token.
func Validated(ctx context.Context) bool {
	v, _ := ctx.Value(validatedKey).(bool)
	return v
}

// CSRF returns middleware with the default configuration backed by the given
// token manager.
func CSRF(manager *token.Manager) func(http.Handler) http.Handler {
	return CSRFWithConfig(csrf.DefaultConfig(), manager, nil)
}

// CSRFWithConfig returns middleware enforcing the given configuration. The
// logger may be nil, in which case attack reports are discarded. It panics if
// the configuration is invalid, mirroring how route setup fails fast.
func CSRFWithConfig(cfg csrf.Config, manager *token.Manager, log *slog.Logger) func(http.Handler) http.Handler {
	validator, err := csrf.NewValidator(cfg, manager)
	if err != nil {
		panic(fmt.Sprintf("middleware: invalid csrf config: %v", err))
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cfg = validator.Config()
	noscript := rewrite.NoScriptPayload(cfg.NoScriptMessage)
	script := rewrite.ScriptPayload(cfg.ScriptURL, cfg.TokenName, validator.Rules().Patterns())
	payloadLen := len(noscript) + len(script)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || validator.Ignored(r) {
				next.ServeHTTP(w, r)
				return
			}

			regenerate := true
			if validator.Required(r) {
				err := validator.Validate(r.Context(), r)
				switch {
				case err == nil:
					r = r.WithContext(context.WithValue(r.Context(), validatedKey, true))
				case errors.Is(err, token.ErrStoreUnavailable):
					log.ErrorContext(r.Context(), "csrf token store unavailable",
						logger.Method(r.Method),
						logger.Path(r.URL.Path),
						logger.Error(err))
					w.WriteHeader(http.StatusForbidden)
					return
				default:
					logAttack(log, r, err)
					r, regenerate = applyFailureAction(cfg, w, r, err)
					if r == nil {
						return
					}
				}
			}

			injector := rewrite.NewInjector(noscript, script)
			rw := newRewriteWriter(w, injector, payloadLen, cfg.ChunkedOnly, func(h http.Header) {
				h.Set("X-Protected-By", csrf.NameVersion)
				if regenerate {
					issueCookies(r, h, manager, cfg.TokenName, log)
				}
			})
			next.ServeHTTP(rw, r)
			rw.finish()

			if regenerate {
				if _, err := manager.Sweep(r.Context()); err != nil {
					log.ErrorContext(r.Context(), "csrf session sweep failed", logger.Error(err))
				}
			}
		})
	}
}

// issueCookies mints a fresh token (reusing the session id carried by the
// request, if any) and attaches both cookies in the legacy Version=1 format.
func issueCookies(r *http.Request, h http.Header, manager *token.Manager, tokenName string, log *slog.Logger) {
	var sessionID string
	if c, err := r.Cookie(csrf.SessionCookieName); err == nil {
		sessionID = c.Value
	}

	sess, err := manager.Issue(r.Context(), sessionID)
	if err != nil {
		// Deliver the response without fresh cookies rather than fail it.
		log.ErrorContext(r.Context(), "csrf token issue failed", logger.Error(err))
		return
	}

	h.Add("Set-Cookie", fmt.Sprintf("%s=%s; Version=1; Path=/", tokenName, sess.Token))
	h.Add("Set-Cookie", fmt.Sprintf("%s=%s; Version=1; Path=/; HttpOnly", csrf.SessionCookieName, sess.ID))
}

// logAttack records the validation failure before any failure action runs, so
// the report survives even when the request is allowed to proceed stripped.
func logAttack(log *slog.Logger, r *http.Request, err error) {
	log.WarnContext(r.Context(), "csrf validation failed",
		logger.ClientIP(r.RemoteAddr),
		logger.Method(r.Method),
		logger.Host(r.Host),
		logger.Path(r.RequestURI),
		logger.Reason(err.Error()),
	)
}

// applyFailureAction executes the configured action for a failed request. It
// returns a nil request when the response has been written and processing
// must stop; for the strip action it returns the neutered request and false
// to suppress token regeneration.
func applyFailureAction(cfg csrf.Config, w http.ResponseWriter, r *http.Request, _ error) (*http.Request, bool) {
	switch cfg.Action {
	case csrf.ActionStrip:
		return stripRequest(r), false
	case csrf.ActionRedirect:
		url := cfg.RedirectURL
		if url == "" {
			w.WriteHeader(http.StatusForbidden)
			return nil, false
		}
		http.Redirect(w, r, url, http.StatusMovedPermanently)
		return nil, false
	case csrf.ActionMessage:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, cfg.ErrorMessage)
		return nil, false
	case csrf.ActionInternalServerError:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	default:
		w.WriteHeader(http.StatusForbidden)
		return nil, false
	}
}

// stripRequest removes the query string and request body so the handler sees
// a parameterless GET-like request.
func stripRequest(r *http.Request) *http.Request {
	r2 := r.Clone(r.Context())
	r2.URL.RawQuery = ""
	r2.RequestURI = r2.URL.RequestURI()
	if r2.Body != nil {
		_ = r2.Body.Close()
	}
	r2.Body = http.NoBody
	r2.ContentLength = 0
	r2.Header.Del("Content-Length")
	return r2
}
