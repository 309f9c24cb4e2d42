package client

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/dropvault/internal/common"
)

// apiError converts a failure response into the matching sentinel so
// callers can branch with errors.Is regardless of transport.
func apiError(status int, code, msg string) error {

	var sentinel error

	switch code {
	case "invalid_input":
		sentinel = common.ErrorInvalidInput
	case "not_found":
		sentinel = common.ErrorNotFound
	case "expired":
		sentinel = common.ErrorExpired
	case "password_required":
		sentinel = common.ErrorPasswordRequired
	case "forbidden":
		sentinel = common.ErrorForbidden
	case "resource_exhausted":
		sentinel = common.ErrorResourceExhausted
	case "upstream":
		sentinel = common.ErrorUpstream
	default:
		// older servers send no machine code, fall back on the status
		switch status {
		case http.StatusBadRequest:
			sentinel = common.ErrorInvalidInput
		case http.StatusNotFound:
			sentinel = common.ErrorNotFound
		case http.StatusGone:
			sentinel = common.ErrorExpired
		case http.StatusUnauthorized:
			sentinel = common.ErrorPasswordRequired
		case http.StatusForbidden:
			sentinel = common.ErrorForbidden
		default:
			sentinel = common.ErrorUpstream
		}
	}

	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
