package sessionkit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoManager indicates a flow was built without a session manager. This
	// is a wiring mistake, distinct from "not authenticated": verification
	// must not be submitted against a session that can never be finalized.
	ErrNoManager = errors.New("session manager not configured")

	// ErrNoPendingLogin indicates the OTP flow has no carried login attempt,
	// e.g. the user arrived directly or the transient state was lost. The
	// only recovery is restarting the login.
	ErrNoPendingLogin = errors.New("login attempt expired, please log in again")

	// ErrSubmitInFlight indicates a submission was attempted while another
	// one is still outstanding.
	ErrSubmitInFlight = errors.New("submission already in flight")

	// ErrProtocol indicates the server's success response was missing part of
	// the session triple. The flow fails rather than partially logging in.
	ErrProtocol = errors.New("verification response missing session fields")

	// ErrLoginRequired is the guard's redirect-to-login signal for an absent
	// session.
	ErrLoginRequired = errors.New("login required")

	// ErrSessionExpired is the guard's signal that the server rejected the
	// credential. The session has been cleared.
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// FlowError is a classified server-side rejection, carrying the structured
// wire code rather than matched message prose.
type FlowError struct {
	Code    string
	Message string
	UserID  string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeTimeout classifies a request that exceeded the client deadline.
const CodeTimeout = "timeout"

// ValidationError reports field-level problems found before any network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}
