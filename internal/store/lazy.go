package store

import "sync"

// Lazy is an explicitly owned store handle that opens the database on first
// use. After Close every Get fails with ErrClosed.
type Lazy struct {
	path string

	mu     sync.Mutex
	st     *Store
	closed bool
}

// NewLazy returns a handle for the database at path. Nothing is opened yet.
func NewLazy(path string) *Lazy {
	return &Lazy{path: path}
}

// Get returns the open store, opening it on the first call. A failed open is
// retried on the next call.
func (l *Lazy) Get() (*Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	if l.st == nil {
		st, err := Open(l.path)
		if err != nil {
			return nil, err
		}
		l.st = st
	}
	return l.st, nil
}

// Opened reports whether the database has been opened.
func (l *Lazy) Opened() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.st != nil
}

// Close closes the database if it was opened. It is safe to call twice.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.st == nil {
		return nil
	}
	err := l.st.Close()
	l.st = nil
	return err
}
