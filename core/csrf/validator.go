package csrf

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/dmitrymomot/csrfkit/core/token"
)

// TokenMatcher checks a candidate token against the one stored for a
// session. *token.Manager satisfies it.
type TokenMatcher interface {
	Match(ctx context.Context, sessionID, candidate string) (token.MatchResult, error)
}

// Validator decides whether a request needs anti-forgery validation and
// performs it. It holds only read-only state and is safe for concurrent use.
type Validator struct {
	cfg    Config
	rules  *RuleSet
	tokens TokenMatcher
	ignore *regexp.Regexp
}

// NewValidator builds a validator from the given configuration. Empty config
// fields are filled with defaults before validation; an invalid configuration
// is rejected here rather than at request time.
func NewValidator(cfg Config, tokens TokenMatcher) (*Validator, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rules, err := NewRuleSet(cfg.VerifyGetFor...)
	if err != nil {
		return nil, err
	}

	// Validate guarantees the pattern compiles.
	ignore := regexp.MustCompile(cfg.IgnorePattern)

	return &Validator{cfg: cfg, rules: rules, tokens: tokens, ignore: ignore}, nil
}

// Config returns the effective configuration after defaulting.
func (v *Validator) Config() Config {
	return v.cfg
}

// Rules returns the compiled GET-validation rule set.
func (v *Validator) Rules() *RuleSet {
	return v.rules
}

// Ignored reports whether the request path matches the ignore pattern. The
// pattern is applied to the final path segment, falling back to the full
// path when there is none. Callers should compute this once per request.
func (v *Validator) Ignored(r *http.Request) bool {
	path := r.URL.Path
	if path == "" {
		return false
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		if seg := path[i:]; seg != "/" {
			return v.ignore.MatchString(seg)
		}
	}
	return v.ignore.MatchString(path)
}

// Required reports whether the request must carry a valid token: every POST
// unconditionally, and any GET whose URL matches a configured rule.
func (v *Validator) Required(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost:
		return true
	case http.MethodGet:
		return v.rules.MatchURL(r.Host, r.URL.Path)
	default:
		return false
	}
}

// Validate extracts the candidate token and session id from the request and
// checks them against the store. A nil return means the request passed.
// Store failures are reported as token.ErrStoreUnavailable (wrapped); every
// other failure maps to one of the package's validation sentinels.
func (v *Validator) Validate(ctx context.Context, r *http.Request) error {
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil || sessionCookie.Value == "" {
		// No session to validate against, regardless of any supplied token.
		return ErrNoSessionCookie
	}

	candidate := v.extractToken(r)
	if candidate == "" {
		return ErrTokenMissing
	}

	result, err := v.tokens.Match(ctx, sessionCookie.Value, candidate)
	if err != nil {
		return err
	}
	switch result {
	case token.MatchValid:
		return nil
	case token.MatchExpired:
		return ErrTokenExpired
	case token.MatchNotFound:
		return ErrSessionUnknown
	default:
		return ErrTokenMismatch
	}
}

// extractToken reads the token field from the query string when one is
// present, else from the request header of the same name. Query values are
// the raw &/= delimited segments without further decoding.
func (v *Validator) extractToken(r *http.Request) string {
	if raw := r.URL.RawQuery; raw != "" {
		for _, pair := range strings.Split(raw, "&") {
			name, value, _ := strings.Cut(pair, "=")
			if name == v.cfg.TokenName {
				return value
			}
		}
		return ""
	}
	return r.Header.Get(v.cfg.TokenName)
}
