// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the
// vaultctl command line.
//
// All Msg* constants are human-readable message strings printed to the user
// to describe the outcome of a command. Keeping them in one place ensures
// consistent wording throughout the tool.
package app

const (
	// MsgUsage is printed when no command, or an unknown one, is given.
	MsgUsage = `usage: vaultctl [flags] <command> [args]

commands:
  status                      show the state of the configuration
  get SECTION OPTION          print a value
  set SECTION OPTION VALUE    store a value
  set-private SECTION OPTION VALUE
                              store a value encrypted
  rotate-master-key           append a new master key generation
  change-passphrase           re-wrap the configuration under a new passphrase
  grant-token ACCESS          print a fresh token for an access grant
  export FILE                 write a recovery bundle
  import FILE                 restore a recovery bundle`

	// MsgWrongArguments is returned when a command gets the wrong number of
	// arguments.
	MsgWrongArguments = "wrong number of arguments"

	// MsgWrongPassphrase is returned when the passphrase does not unlock the
	// configuration.
	MsgWrongPassphrase = "wrong passphrase"

	// MsgLocked is returned when a command needs the configuration to be
	// unlocked and no passphrase was available.
	MsgLocked = "configuration is locked"

	// MsgPassphraseMismatch is returned when the repeated new passphrase
	// differs from the first entry.
	MsgPassphraseMismatch = "passphrases do not match"

	// MsgEmptyPassphrase is returned when an empty new passphrase is given.
	MsgEmptyPassphrase = "passphrase must not be empty"

	// MsgKeyConflict is returned when a different key is already active.
	MsgKeyConflict = "configuration is unlocked with a different key"

	// MsgMasterKeysExhausted is returned when no further master key
	// generation may be created.
	MsgMasterKeysExhausted = "master key limit reached"

	// MsgUnknownSection is returned when a write targets a section name
	// outside the allowed families.
	MsgUnknownSection = "unknown section"

	// MsgNoSuchGrant is returned when an access grant does not exist.
	MsgNoSuchGrant = "no such access grant"

	// MsgBadRecoveryData is returned when an import file is not a valid
	// recovery bundle or does not match its key.
	MsgBadRecoveryData = "invalid recovery data"

	// MsgSaveFailed is returned when the configuration could not be written.
	// The change is kept in memory and retried by the next save.
	MsgSaveFailed = "saving configuration failed"
)
