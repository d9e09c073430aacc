// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"errors"

	"github.com/MKhiriev/go-conf-vault/internal/access"
	"github.com/MKhiriev/go-conf-vault/internal/app"
	"github.com/MKhiriev/go-conf-vault/internal/crypto"
	"github.com/MKhiriev/go-conf-vault/internal/recovery"
	"github.com/MKhiriev/go-conf-vault/internal/store"
)

// UserMessage translates an error returned by a command into the message
// shown to the user. Errors without a dedicated message are shown as is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUsage):
		return app.MsgUsage
	case errors.Is(err, ErrWrongArguments):
		return app.MsgWrongArguments + "\n\n" + app.MsgUsage
	case errors.Is(err, ErrPassphraseMismatch):
		return app.MsgPassphraseMismatch
	case errors.Is(err, ErrEmptyPassphrase):
		return app.MsgEmptyPassphrase
	case errors.Is(err, crypto.ErrWrongPassphrase):
		return app.MsgWrongPassphrase
	case errors.Is(err, crypto.ErrLocked):
		return app.MsgLocked
	case errors.Is(err, crypto.ErrKeyConflict):
		return app.MsgKeyConflict
	case errors.Is(err, crypto.ErrExhausted):
		return app.MsgMasterKeysExhausted
	case errors.Is(err, store.ErrUnknownSection):
		return app.MsgUnknownSection
	case errors.Is(err, store.ErrPersist):
		return app.MsgSaveFailed
	case errors.Is(err, access.ErrNoGrant):
		return app.MsgNoSuchGrant
	case errors.Is(err, recovery.ErrBadBundle), errors.Is(err, store.ErrInvalidSnapshot):
		return app.MsgBadRecoveryData
	}

	return err.Error()
}
