package client

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// PassphraseEnv names the environment variable read before prompting.
const PassphraseEnv = "VAULT_PASSPHRASE"

// ErrNoTerminal is returned when a passphrase is needed, none is set in the
// environment and stdin is not a terminal.
var ErrNoTerminal = errors.New("no passphrase: stdin is not a terminal")

// TerminalReader reads passphrases from the environment or, failing that,
// from the terminal without echo.
type TerminalReader struct {
	fd     int
	out    io.Writer
	getenv func(string) string
}

// NewTerminalReader returns a reader prompting on stderr.
func NewTerminalReader() *TerminalReader {
	return &TerminalReader{fd: int(os.Stdin.Fd()), out: os.Stderr, getenv: os.Getenv}
}

// ReadPassphrase implements PassphraseReader. The environment variable
// only answers the first, unlocking prompt; new passphrases are always
// typed.
func (r *TerminalReader) ReadPassphrase(prompt string) (string, error) {
	if prompt == PromptUnlock {
		if v := r.getenv(PassphraseEnv); v != "" {
			return v, nil
		}
	}
	if !term.IsTerminal(r.fd) {
		return "", ErrNoTerminal
	}
	fmt.Fprintf(r.out, "%s: ", prompt)
	raw, err := term.ReadPassword(r.fd)
	fmt.Fprintln(r.out)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(raw), nil
}
