package csrf

import "strings"

// Action is the response disposition applied to a request that failed
// validation.
type Action int

const (
	// ActionForbidden rejects the request with 403 Forbidden. Default.
	ActionForbidden Action = iota
	// ActionStrip clears the GET query string or discards the POST body and
	// lets the request proceed.
	ActionStrip
	// ActionRedirect responds with a permanent redirect to the configured
	// URL, falling back to forbidden when none is configured.
	ActionRedirect
	// ActionMessage serves the configured HTML message as the full response
	// body.
	ActionMessage
	// ActionInternalServerError rejects the request with 500.
	ActionInternalServerError
)

// ParseAction maps a configuration string to an Action. Unrecognized values
// fall back to ActionForbidden.
func ParseAction(s string) Action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strip":
		return ActionStrip
	case "redirect":
		return ActionRedirect
	case "message":
		return ActionMessage
	case "internal_server_error":
		return ActionInternalServerError
	default:
		return ActionForbidden
	}
}

// String returns the configuration name of the action.
func (a Action) String() string {
	switch a {
	case ActionStrip:
		return "strip"
	case ActionRedirect:
		return "redirect"
	case ActionMessage:
		return "message"
	case ActionInternalServerError:
		return "internal_server_error"
	default:
		return "forbidden"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so Action values can be
// parsed straight from environment variables.
func (a *Action) UnmarshalText(text []byte) error {
	*a = ParseAction(string(text))
	return nil
}
