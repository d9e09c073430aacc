package client

//go:generate mockgen -source=interfaces.go -destination=../mock/passphrase_reader_mock.go -package=mock

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes one command line and returns when it is done.
	Run(args []string) error
}

// PassphraseReader supplies passphrases to commands that need the
// configuration unlocked.
type PassphraseReader interface {
	// ReadPassphrase returns the passphrase for prompt.
	ReadPassphrase(prompt string) (string, error)
}
