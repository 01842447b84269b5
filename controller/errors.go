package controller

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mww/league_insights/platforms"
)

type FailureKind string

const (
	FailurePrivateLeague  FailureKind = "private_league"
	FailureTokenExpired   FailureKind = "token_expired"
	FailureNotFound       FailureKind = "not_found"
	FailureNetwork        FailureKind = "network"
	FailureInvalidRequest FailureKind = "invalid_request"
	FailureSuperseded     FailureKind = "superseded"
	FailureUnknown        FailureKind = "unknown"
)

// Failure is a load error in terms a user can act on.
type Failure struct {
	Kind      FailureKind `json:"kind"`
	Message   string      `json:"message"`
	Retryable bool        `json:"retryable"`
}

var defaultMessages = map[FailureKind]string{
	FailurePrivateLeague:  "This league is private. Provide credentials for it.",
	FailureTokenExpired:   "Your session expired. Sign in again.",
	FailureNotFound:       "League not found. Verify the league id and season.",
	FailureNetwork:        "Could not reach the provider. Try again in a few minutes.",
	FailureInvalidRequest: "The league id or season is not valid.",
	FailureSuperseded:     "A newer league load replaced this one.",
	FailureUnknown:        "Something went wrong loading the league.",
}

// ClassifyError maps a load error to a failure category. The hint attached
// where the error was built is preferred over the default message.
func ClassifyError(err error) Failure {
	if err == nil {
		return Failure{}
	}

	var kind FailureKind
	switch {
	case errors.Is(err, ErrStaleLoad):
		kind = FailureSuperseded
	case errors.Is(err, platforms.ErrTokenExpired):
		kind = FailureTokenExpired
	case errors.Is(err, platforms.ErrUnauthorized):
		kind = FailurePrivateLeague
	case errors.Is(err, platforms.ErrNotFound):
		kind = FailureNotFound
	case errors.Is(err, platforms.ErrInvalidRequest):
		kind = FailureInvalidRequest
	case errors.Is(err, platforms.ErrNetwork),
		errors.Is(err, context.DeadlineExceeded):
		kind = FailureNetwork
	default:
		kind = FailureUnknown
	}

	msg := defaultMessages[kind]
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		msg = strings.Join(hints, " ")
	}
	return Failure{
		Kind:      kind,
		Message:   msg,
		Retryable: kind == FailureNetwork || kind == FailureUnknown,
	}
}
