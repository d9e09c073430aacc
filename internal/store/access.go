package store

// Store-level shortcuts wrapping a single read or write transaction.

// Get reads section/option in its own read transaction.
func (s *Store) Get(section, option string, def any) (any, error) {
	var v any
	err := s.View(func(tx *Tx) error {
		var err error
		v, err = tx.Get(section, option, def)
		return err
	})
	return v, err
}

// GetSealed is [Tx.GetSealed] in its own read transaction.
func (s *Store) GetSealed(section, option string, def any) (any, error) {
	var v any
	err := s.View(func(tx *Tx) error {
		var err error
		v, err = tx.GetSealed(section, option, def)
		return err
	})
	return v, err
}

// Set writes section/option in its own transaction.
func (s *Store) Set(section, option string, v any) error {
	return s.Update(func(tx *Tx) error {
		return tx.Set(section, option, v)
	})
}

// SetPrivate writes section/option encrypted in its own transaction.
func (s *Store) SetPrivate(section, option string, v any) error {
	return s.Update(func(tx *Tx) error {
		return tx.SetPrivate(section, option, v)
	})
}

// Delete removes section/option in its own transaction.
func (s *Store) Delete(section, option string) error {
	return s.Update(func(tx *Tx) error {
		return tx.Delete(section, option)
	})
}

// Sections lists the section names.
func (s *Store) Sections() []string {
	var out []string
	_ = s.View(func(tx *Tx) error {
		out = tx.Sections()
		return nil
	})
	return out
}

// Options lists the options of section.
func (s *Store) Options(section string) []string {
	var out []string
	_ = s.View(func(tx *Tx) error {
		out = tx.Options(section)
		return nil
	})
	return out
}
