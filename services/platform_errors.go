package services

import "errors"

// Error taxonomy for talking to the external platforms. Callers branch with
// errors.Is; the concrete cause stays wrapped underneath.
var (
	// ErrUpstreamUnavailable covers network failures and non-2xx responses.
	ErrUpstreamUnavailable = errors.New("upstream platform unavailable")

	// ErrUpstreamShape covers responses that arrived but did not decode
	// into the expected payload. Treated like unavailability by consumers.
	ErrUpstreamShape = errors.New("unexpected upstream response shape")

	// ErrPlatformUserNotFound means the handle does not exist on the
	// platform; surfaced distinctly so the user can fix their handle.
	ErrPlatformUserNotFound = errors.New("user not found on platform")

	// ErrInvalidRange rejects malformed year/month arguments to the
	// contest schedule queries.
	ErrInvalidRange = errors.New("invalid contest range")
)
