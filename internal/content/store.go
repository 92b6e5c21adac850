package content

import "sync/atomic"

// Store holds the current portfolio revision. Readers never block the
// watcher swapping in a reloaded revision.
type Store struct {
	current atomic.Pointer[Portfolio]
	source  string
}

// NewStore creates a Store seeded with p. source is the file p came from,
// empty for the embedded portfolio.
func NewStore(p *Portfolio, source string) *Store {
	s := &Store{source: source}
	s.current.Store(p)
	return s
}

// Current returns the portfolio being served.
func (s *Store) Current() *Portfolio {
	return s.current.Load()
}

// Replace swaps in a new revision.
func (s *Store) Replace(p *Portfolio) {
	s.current.Store(p)
}

// Source returns the file backing the store, if any.
func (s *Store) Source() string {
	return s.source
}

// Reload re-reads the backing file. On error the current revision is kept.
func (s *Store) Reload() error {
	if s.source == "" {
		return nil
	}
	p, err := Load(s.source)
	if err != nil {
		return err
	}
	s.Replace(p)
	return nil
}

// Open loads the portfolio from path, or the embedded one when path is empty.
func Open(path string) (*Store, error) {
	var (
		p   *Portfolio
		err error
	)
	if path == "" {
		p, err = Default()
	} else {
		p, err = Load(path)
	}
	if err != nil {
		return nil, err
	}
	return NewStore(p, path), nil
}
