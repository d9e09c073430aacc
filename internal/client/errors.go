package client

import "errors"

var (
	// ErrUsage is returned when no command or an unknown one is given.
	ErrUsage = errors.New("usage")

	// ErrWrongArguments is returned for a wrong argument count.
	ErrWrongArguments = errors.New("wrong number of arguments")

	// ErrPassphraseMismatch is returned when a repeated new passphrase
	// differs.
	ErrPassphraseMismatch = errors.New("passphrases do not match")

	// ErrEmptyPassphrase is returned for an empty new passphrase.
	ErrEmptyPassphrase = errors.New("empty passphrase")
)
