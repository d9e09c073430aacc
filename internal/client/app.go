// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/MKhiriev/go-conf-vault/internal/access"
	"github.com/MKhiriev/go-conf-vault/internal/codec"
	"github.com/MKhiriev/go-conf-vault/internal/config"
	"github.com/MKhiriev/go-conf-vault/internal/crypto"
	"github.com/MKhiriev/go-conf-vault/internal/logger"
	"github.com/MKhiriev/go-conf-vault/internal/recovery"
	"github.com/MKhiriev/go-conf-vault/internal/store"
)

// Prompts passed to the PassphraseReader.
const (
	PromptUnlock    = "Passphrase"
	PromptNew       = "New passphrase"
	PromptNewRepeat = "Repeat new passphrase"
)

// App runs vaultctl commands against one store.
type App struct {
	store    *store.Store
	access   *access.Service
	recovery *recovery.Service
	prompt   PassphraseReader
	out      io.Writer
	logger   *logger.Logger
}

// NewApp opens the store described by cfg.
func NewApp(cfg *config.StructuredConfig, prompt PassphraseReader, out io.Writer, log *logger.Logger, opts ...store.Option) (*App, error) {
	s, err := store.Open(cfg, log, opts...)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if cfg.Log.FromDocument() {
		applyDocumentLogLevel(s, log)
	}
	return &App{
		store:    s,
		access:   access.NewService(s, cfg.Access, log),
		recovery: recovery.NewService(s, log),
		prompt:   prompt,
		out:      out,
		logger:   log.WithComponent("client"),
	}, nil
}

// applyDocumentLogLevel sets log to the level stored in App/log_level.
func applyDocumentLogLevel(s *store.Store, log *logger.Logger) {
	var n int64
	err := s.View(func(tx *store.Tx) error {
		var err error
		n, err = tx.GetInt(store.AppSection, store.LogLevelOption, 40)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable log level setting")
		return
	}
	log.SetLevel(logger.LevelFromNumeric(n))
}

type command struct {
	args int
	run  func(a *App, args []string) error
}

var commands = map[string]command{
	"status":            {0, (*App).status},
	"get":               {2, (*App).get},
	"set":               {3, (*App).set},
	"set-private":       {3, (*App).setPrivate},
	"rotate-master-key": {0, (*App).rotateMasterKey},
	"change-passphrase": {0, (*App).changePassphrase},
	"grant-token":       {1, (*App).grantToken},
	"export":            {1, (*App).export},
	"import":            {1, (*App).importBundle},
}

// Run executes the command in args[0] with the remaining arguments.
func (a *App) Run(args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	if len(args)-1 != cmd.args {
		return fmt.Errorf("%w: %s takes %d", ErrWrongArguments, args[0], cmd.args)
	}
	a.logger.Debug().Str("command", args[0]).Msg("running command")
	return cmd.run(a, args[1:])
}

// unlock asks for the passphrase unless the store is already unlocked.
func (a *App) unlock() error {
	if a.store.Unlocked() {
		return nil
	}
	passphrase, err := a.prompt.ReadPassphrase(PromptUnlock)
	if err != nil {
		return err
	}
	return a.store.Unlock(passphrase)
}

func (a *App) status(_ []string) error {
	fmt.Fprintf(a.out, "file:       %s\n", a.store.Path())
	fmt.Fprintf(a.out, "encrypted:  %t\n", a.store.HasCryptoEnabled())
	fmt.Fprintf(a.out, "unlocked:   %t\n", a.store.Unlocked())

	if a.store.Unlocked() {
		keys, err := a.store.MasterKeys()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "masterkeys: %d\n", len(keys))
	}

	grants, err := a.access.Grants()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "grants:     %d\n", len(grants))
	for _, name := range a.store.Sections() {
		fmt.Fprintf(a.out, "  [%s] %d options\n", name, len(a.store.Options(name)))
	}
	return nil
}

func (a *App) get(args []string) error {
	v, err := a.store.GetSealed(args[0], args[1], nil)
	if err != nil {
		return err
	}
	if _, sealed := v.(codec.Sealed); sealed {
		if err := a.unlock(); err != nil {
			return err
		}
		if v, err = a.store.Get(args[0], args[1], nil); err != nil {
			return err
		}
	}
	if v == nil {
		return fmt.Errorf("%s/%s is not set", args[0], args[1])
	}
	fmt.Fprintln(a.out, formatValue(v))
	return nil
}

func (a *App) set(args []string) error {
	err := a.store.Set(args[0], args[1], args[2])
	if !errors.Is(err, crypto.ErrLocked) {
		return err
	}
	if err := a.unlock(); err != nil {
		return err
	}
	return a.store.Set(args[0], args[1], args[2])
}

func (a *App) setPrivate(args []string) error {
	if err := a.unlock(); err != nil {
		return err
	}
	return a.store.SetPrivate(args[0], args[1], args[2])
}

func (a *App) rotateMasterKey(_ []string) error {
	if err := a.unlock(); err != nil {
		return err
	}
	gen, err := a.store.RotateMasterKey()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "master key generation %d created\n", gen)
	return nil
}

func (a *App) changePassphrase(_ []string) error {
	if err := a.unlock(); err != nil {
		return err
	}
	first, err := a.prompt.ReadPassphrase(PromptNew)
	if err != nil {
		return err
	}
	if first == "" {
		return ErrEmptyPassphrase
	}
	second, err := a.prompt.ReadPassphrase(PromptNewRepeat)
	if err != nil {
		return err
	}
	if first != second {
		return ErrPassphraseMismatch
	}
	if err := a.store.ChangePassphrase(first); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "passphrase changed")
	return nil
}

func (a *App) grantToken(args []string) error {
	key := args[0]
	if !strings.HasPrefix(key, store.AccessPrefix) {
		key = store.AccessPrefix + key
	}
	token, issued, err := a.access.FreshestToken(key, 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\texpires %s\n", token, issued.Add(a.access.TTL()).UTC().Format(time.RFC3339))
	return nil
}

func (a *App) export(args []string) error {
	if err := a.unlock(); err != nil {
		return err
	}
	data, err := a.recovery.Export("")
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0o600); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	fmt.Fprintf(a.out, "recovery bundle written to %s\n", args[0])
	return nil
}

func (a *App) importBundle(args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	if err := a.recovery.Import(data); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "configuration restored")
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + formatValue(val[k])
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
