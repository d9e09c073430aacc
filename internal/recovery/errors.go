package recovery

import "errors"

// Sentinel errors returned by the recovery package.
var (
	// ErrBadBundle is returned when recovery data cannot be parsed or has an
	// unknown version.
	ErrBadBundle = errors.New("invalid recovery bundle")

	// ErrDisabled is returned by Protect when recovery is switched off.
	ErrDisabled = errors.New("recovery is disabled")

	// ErrBadShare is returned for malformed or inconsistent shares.
	ErrBadShare = errors.New("invalid recovery share")
)
