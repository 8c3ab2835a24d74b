package videogen

import (
	"errors"
	"net/http"
	"strings"
)

// Substrings seen in provider error text that indicate an unusable key when
// the envelope carries no structured status. The set is deliberately kept in
// one place; extend it here rather than matching at call sites.
var credentialErrorHints = []string{
	"permission denied",
	"permission_denied",
	"api key not valid",
	"api_key_invalid",
	"requested entity was not found",
}

// IsCredentialError reports whether err indicates a rejected or unusable API
// key, i.e. a failure the caller should answer by clearing the stored
// credential and re-running the selection flow. Structured codes from the
// provider envelope are checked first; the message heuristic is the
// fallback for errors the envelope does not classify.
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCredentialMissing) {
		return true
	}

	var sub *SubmissionError
	if errors.As(err, &sub) {
		return credentialClass(sub.Code, sub.Status, sub.Message)
	}
	var poll *PollError
	if errors.As(err, &poll) {
		return credentialClass(poll.Code, poll.Status, poll.Message)
	}
	return false
}

func credentialClass(code int, status, message string) bool {
	if code == http.StatusForbidden || code == http.StatusUnauthorized {
		return true
	}
	switch strings.ToUpper(status) {
	case "PERMISSION_DENIED", "UNAUTHENTICATED", "NOT_FOUND":
		return true
	}
	lowered := strings.ToLower(message)
	for _, hint := range credentialErrorHints {
		if strings.Contains(lowered, hint) {
			return true
		}
	}
	return false
}
