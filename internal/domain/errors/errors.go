package errors

import "errors"

// Expected, recoverable outcomes of poll and vote operations. Handlers map
// these onto HTTP statuses; anything not listed here is an infrastructure
// fault and surfaces as ErrInternal.
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("poll not found")
	ErrPollClosed   = errors.New("poll is inactive or expired")
	ErrAlreadyVoted = errors.New("already voted in this poll")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("insufficient privilege")
	ErrInternal     = errors.New("internal fault")
)
