package credentials

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrCredentialsRequired marks a failure caused by the upstream Oracle
	// account lacking active credentials.
	ErrCredentialsRequired = errors.New("upstream credentials required")

	// ErrCancelled is joined to the original failure when the credentials
	// dialog is dismissed.
	ErrCancelled = errors.New("credentials configuration cancelled")

	// ErrAbandoned is returned when the caller stops waiting for the dialog.
	ErrAbandoned = errors.New("stopped waiting for credentials")
)

// Flagged is implemented by errors that carry a structured "needs
// credentials" marker, such as the REST client's API errors.
type Flagged interface {
	CredentialsRequired() bool
}

// IsCredentialsError reports whether err, or any error it wraps, signals
// missing upstream credentials.
func IsCredentialsError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCredentialsRequired) {
		return true
	}
	var flagged Flagged
	return errors.As(err, &flagged) && flagged.CredentialsRequired()
}

// IsCancelled reports whether err came from a dismissed credentials dialog.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

var credentialWords = []string{"credencial", "credential", "oracle"}

// MatchesCredentialsFailure recognises the status+message pattern the API
// uses when the Oracle service account is not configured.
func MatchesCredentialsFailure(status int, message string) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden,
		http.StatusPreconditionFailed, http.StatusPreconditionRequired:
	default:
		return false
	}
	msg := strings.ToLower(message)
	for _, w := range credentialWords {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}
