// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/ini.v1"
)

const preamble = `# This is the go-conf-vault configuration file.
#
# Every value is a typed token. Values starting with "::" are encrypted and
# can only be read after unlocking with the passphrase. Edit this file with
# vaultctl; hand edits to encrypted values will make them unreadable.
#
`

var iniOptions = ini.LoadOptions{
	KeyValueDelimiters:  "=",
	IgnoreInlineComment: true,
	IgnoreContinuation:  true,
}

// parseDocument reads INI text into a document. Keys outside any section are
// ignored and reported through the returned slice.
func parseDocument(data []byte) (*document, []string, error) {
	f, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse configuration: %w", err)
	}

	doc := newDocument()
	var stray []string
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			stray = append(stray, sec.KeyStrings()...)
			continue
		}
		doc.ensureSection(sec.Name())
		for _, key := range sec.Keys() {
			doc.put(sec.Name(), key.Name(), key.Value())
		}
	}
	return doc, stray, nil
}

// renderDocument writes doc as INI text: the preamble, then non-empty sections
// in persisted order with their options in natural order.
func renderDocument(doc *document, w io.Writer) error {
	f := ini.Empty(iniOptions)
	for _, name := range sortSections(doc.sectionNames()) {
		opts := doc.options(name)
		if len(opts) == 0 {
			continue
		}
		sort.Slice(opts, func(i, j int) bool { return NaturalLess(opts[i], opts[j]) })

		sec, err := f.NewSection(name)
		if err != nil {
			return fmt.Errorf("render section %q: %w", name, err)
		}
		for _, opt := range opts {
			token, _ := doc.raw(name, opt)
			if _, err := sec.NewKey(opt, token); err != nil {
				return fmt.Errorf("render %s/%s: %w", name, opt, err)
			}
		}
	}

	if _, err := io.WriteString(w, preamble); err != nil {
		return err
	}
	_, err := f.WriteTo(w)
	return err
}

// writeFileAtomic replaces path with data: temp file in the same directory,
// fsync, owner-only mode, rename. The final file's mtime is set to mtime.
func writeFileAtomic(path string, data []byte, mtime time.Time) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if err = tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err = io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chtimes(tmpName, mtime, mtime); err != nil {
		return fmt.Errorf("set mtime: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// copyFile copies src to dst with owner-only permissions, preserving mtime.
func copyFile(src, dst string, mtime time.Time) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return writeFileAtomic(dst, data, mtime)
}
