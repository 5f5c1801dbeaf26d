// Package syncx provides small generic concurrency primitives used across
// loglatch's hotter paths: a mutex-guarded cell and a goroutine-sharded
// replica of it, mirroring the original library's Synchronized<T> and
// Replicated<T> templates.
package syncx

import "sync"

// Synchronized guards a value of type T behind a mutex. Go methods cannot
// introduce additional type parameters, so access goes through the
// package-level With/TryWith functions rather than methods.
type Synchronized[T any] struct {
	mu    sync.Mutex
	value T
}

// NewSynchronized wraps value in a Synchronized cell.
func NewSynchronized[T any](value T) *Synchronized[T] {
	return &Synchronized[T]{value: value}
}

// With locks s, calls fn with a pointer to the guarded value, and returns
// fn's result.
func With[T any, R any](s *Synchronized[T], fn func(*T) R) R {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.value)
}

// TryWith attempts to lock s without blocking. ok is false if the lock was
// already held, in which case result is the zero value of R.
func TryWith[T any, R any](s *Synchronized[T], fn func(*T) R) (result R, ok bool) {
	if !s.mu.TryLock() {
		return result, false
	}
	defer s.mu.Unlock()
	return fn(&s.value), true
}
