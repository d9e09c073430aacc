// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the vaultctl command runtime.
//
// It wires the configuration store, the access and recovery services, and a
// passphrase source into commands that each run to completion.
package client
