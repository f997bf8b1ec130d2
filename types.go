package console

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the package depends on. The
// adapters/zerologger package provides a zerolog backed implementation.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Storage is the durable client storage that survives process restarts. It
// mirrors the in-memory session and is read back on cold start.
//
// Delete accepts multiple keys and removes them in a single step; the
// session snapshot invariant (token and profile both present or both
// absent) depends on it.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(keys ...string) error
	Clear() error
}

// Storage keys for the persisted session snapshot.
const (
	StorageKeyToken   = "token"
	StorageKeyProfile = "user"
)

// AuthAPI is the backend surface the SessionStore depends on.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*Credential, error)
	Me(ctx context.Context) (*UserProfile, error)
}

// Snapshot is the session state published to subscribers on every committed
// mutation.
type Snapshot struct {
	Token string
	User  *UserProfile
	Busy  bool
}

// Authenticated reports whether the snapshot carries a credential.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] CONSOLE "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] CONSOLE "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] CONSOLE "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] CONSOLE "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
