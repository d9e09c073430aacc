// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

// document is the in-memory form of the configuration file: sections of
// option → raw token, both kept in insertion order. It has no locking; the
// Store's mutex guards it.
type document struct {
	sections []*section
	index    map[string]*section
}

type section struct {
	name    string
	options []string
	values  map[string]string
}

func newDocument() *document {
	return &document{index: make(map[string]*section)}
}

func (d *document) hasSection(name string) bool {
	_, ok := d.index[name]
	return ok
}

func (d *document) ensureSection(name string) *section {
	if sec, ok := d.index[name]; ok {
		return sec
	}
	sec := &section{name: name, values: make(map[string]string)}
	d.sections = append(d.sections, sec)
	d.index[name] = sec
	return sec
}

func (d *document) sectionNames() []string {
	names := make([]string, len(d.sections))
	for i, sec := range d.sections {
		names[i] = sec.name
	}
	return names
}

func (d *document) options(name string) []string {
	sec, ok := d.index[name]
	if !ok {
		return nil
	}
	return append([]string(nil), sec.options...)
}

func (d *document) raw(name, option string) (string, bool) {
	sec, ok := d.index[name]
	if !ok {
		return "", false
	}
	token, ok := sec.values[option]
	return token, ok
}

func (d *document) put(name, option, token string) {
	sec := d.ensureSection(name)
	if _, ok := sec.values[option]; !ok {
		sec.options = append(sec.options, option)
	}
	sec.values[option] = token
}

// del removes option and reports whether it was present.
func (d *document) del(name, option string) bool {
	sec, ok := d.index[name]
	if !ok {
		return false
	}
	if _, ok := sec.values[option]; !ok {
		return false
	}
	delete(sec.values, option)
	for i, o := range sec.options {
		if o == option {
			sec.options = append(sec.options[:i], sec.options[i+1:]...)
			break
		}
	}
	return true
}

func (d *document) clone() *document {
	out := newDocument()
	for _, sec := range d.sections {
		cp := out.ensureSection(sec.name)
		cp.options = append([]string(nil), sec.options...)
		for k, v := range sec.values {
			cp.values[k] = v
		}
	}
	return out
}
