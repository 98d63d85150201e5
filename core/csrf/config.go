package csrf

import (
	"fmt"
	"regexp"

	"github.com/dmitrymomot/csrfkit/core/token"
)

const (
	// NameVersion identifies the protector in the X-Protected-By header.
	NameVersion = "CSRFP 0.0.1"

	// SessionCookieName is the HTTP-only cookie carrying the session id.
	SessionCookieName = "CSRFPSESSID"

	// DefaultTokenName is the default name of the token field: the visible
	// cookie, the query parameter and the request header all use it.
	DefaultTokenName = "csrfp_token"

	// DefaultScriptURL is the default location of the client-side
	// enforcement script.
	DefaultScriptURL = "http://localhost/csrfp_js/csrfprotector.js"

	// DefaultErrorMessage is served by the message failure action when no
	// custom message is configured.
	DefaultErrorMessage = "<h2>ACCESS FORBIDDEN BY OWASP CSRF_PROTECTOR!</h2>"

	// DefaultNoScriptMessage is embedded in the injected <noscript> block
	// when no custom message is configured.
	DefaultNoScriptMessage = "This site attempts to protect users against" +
		" <a href=\"https://www.owasp.org/index.php/Cross-Site_Request_Forgery_%28CSRF%29\">" +
		" Cross-Site Request Forgeries </a> attacks. In order to do so, you must have JavaScript " +
		" enabled in your web browser otherwise this site will fail to work correctly for you. " +
		" See details of your web browser for how to enable JavaScript."

	// DefaultIgnorePattern skips validation for static assets by extension.
	DefaultIgnorePattern = `.*\.(jpg|jpeg|gif|png|js|css|xml|xsl|json|txt|csv)$`
)

// Config provides environment-based configuration for the protector.
type Config struct {
	// Enabled turns the whole protector on or off.
	Enabled bool `env:"CSRFP_ENABLED" envDefault:"true"`
	// Action applied to requests that fail validation.
	Action Action `env:"CSRFP_ACTION" envDefault:"forbidden"`
	// RedirectURL is the target of the redirect failure action.
	RedirectURL string `env:"CSRFP_REDIRECT_URL" envDefault:""`
	// ErrorMessage is the HTML body served by the message failure action.
	ErrorMessage string `env:"CSRFP_ERROR_MESSAGE" envDefault:""`
	// ScriptURL is the src of the injected client-side enforcement script.
	ScriptURL string `env:"CSRFP_SCRIPT_URL" envDefault:""`
	// TokenName names the token cookie, query parameter and header.
	TokenName string `env:"CSRFP_TOKEN_NAME" envDefault:""`
	// TokenLength is the issued token length; values below
	// token.MinTokenLength are rejected by Validate.
	TokenLength int `env:"CSRFP_TOKEN_LENGTH" envDefault:"15"`
	// NoScriptMessage is embedded in the injected <noscript> block.
	NoScriptMessage string `env:"CSRFP_NOSCRIPT_MESSAGE" envDefault:""`
	// IgnorePattern skips validation for matching request paths.
	IgnorePattern string `env:"CSRFP_IGNORE_PATTERN" envDefault:""`
	// VerifyGetFor lists URL patterns whose GET requests require validation.
	VerifyGetFor []string `env:"CSRFP_VERIFY_GET_FOR" envSeparator:","`
	// ChunkedOnly forces chunked transfer encoding instead of adjusting
	// Content-Length when injecting markup.
	ChunkedOnly bool `env:"CSRFP_CHUNKED_ONLY" envDefault:"false"`
}

// DefaultConfig returns the protector defaults, matching the original OWASP
// module directive defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		Action:          ActionForbidden,
		RedirectURL:     "",
		ErrorMessage:    DefaultErrorMessage,
		ScriptURL:       DefaultScriptURL,
		TokenName:       DefaultTokenName,
		TokenLength:     token.DefaultTokenLength,
		NoScriptMessage: DefaultNoScriptMessage,
		IgnorePattern:   DefaultIgnorePattern,
		ChunkedOnly:     false,
	}
}

// withDefaults fills empty string fields with the package defaults. Empty
// values mean "not configured", never "configured to nothing".
func (c Config) withDefaults() Config {
	if c.ErrorMessage == "" {
		c.ErrorMessage = DefaultErrorMessage
	}
	if c.ScriptURL == "" {
		c.ScriptURL = DefaultScriptURL
	}
	if c.TokenName == "" {
		c.TokenName = DefaultTokenName
	}
	if c.TokenLength == 0 {
		c.TokenLength = token.DefaultTokenLength
	}
	if c.NoScriptMessage == "" {
		c.NoScriptMessage = DefaultNoScriptMessage
	}
	if c.IgnorePattern == "" {
		c.IgnorePattern = DefaultIgnorePattern
	}
	return c
}

// Validate rejects out-of-range and malformed settings. It is called by
// NewValidator after defaults are applied; callers loading configuration
// from the environment should fall back to DefaultConfig on error.
func (c Config) Validate() error {
	if c.TokenName == "" {
		return ErrEmptyTokenName
	}
	if c.TokenLength < token.MinTokenLength {
		return fmt.Errorf("%w: %d < %d", ErrTokenLengthBelowMinimum, c.TokenLength, token.MinTokenLength)
	}
	if _, err := regexp.Compile(c.IgnorePattern); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIgnorePattern, err)
	}
	for _, p := range c.VerifyGetFor {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidRulePattern, p, err)
		}
	}
	return nil
}
