package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidStoreConfigs indicates invalid document location or backup
	// settings (for example, an empty profile directory or a growth factor
	// below 1).
	ErrInvalidStoreConfigs = errors.New("invalid store configuration")
	// ErrInvalidCryptoConfigs indicates invalid scrypt parameters or master
	// key ceiling.
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidAccessConfigs indicates a non-positive token lifetime.
	ErrInvalidAccessConfigs = errors.New("invalid access configuration")
	// ErrInvalidLogConfigs indicates an unknown log level.
	ErrInvalidLogConfigs = errors.New("invalid log configuration")
)
