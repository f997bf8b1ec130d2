package console

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/goliatone/go-errors"
)

// SessionStore is the sole mutator of session state. It owns the in-memory
// token and profile and mirrors both into durable storage; everything else
// reads from it or observes it.
type SessionStore struct {
	mu      sync.Mutex
	api     AuthAPI
	storage Storage
	logger  Logger

	token string
	user  *UserProfile
	busy  bool

	nextSubID int
	subs      []subscriber
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

func NewSessionStore(api AuthAPI, storage Storage) *SessionStore {
	return &SessionStore{
		api:     api,
		storage: storage,
		logger:  defLogger{},
	}
}

func (s *SessionStore) WithLogger(logger Logger) *SessionStore {
	s.logger = logger
	return s
}

// Subscribe registers fn for every committed mutation. Notifications are
// delivered synchronously on the mutating goroutine, in commit order;
// handlers must not call back into the store. The returned function cancels
// the subscription and is safe to call more than once.
func (s *SessionStore) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Login authenticates and then loads the profile; it is complete only once
// the profile fetch resolves or fails. A fetch failure is reported but the
// issued token stays in place: the backend already accepted the
// credentials, and FetchProfile can be retried on its own.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*UserProfile, error) {
	cred, err := s.api.Login(ctx, normalizeEmail(email), password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = cred.Token
	persistErr := s.storage.Set(StorageKeyToken, cred.Token)
	s.publishLocked()
	s.mu.Unlock()

	if persistErr != nil {
		return nil, errors.Wrap(persistErr, errors.CategoryInternal, "unable to persist credential")
	}

	if err := s.FetchProfile(ctx); err != nil {
		return nil, err
	}

	return s.Current(), nil
}

// FetchProfile refreshes the profile using the current credential. The busy
// flag is held for the duration and released on every path so UI callers
// can block redundant requests.
func (s *SessionStore) FetchProfile(ctx context.Context) error {
	s.setBusy(true)
	defer s.setBusy(false)

	profile, err := s.api.Me(ctx)
	if err != nil {
		if IsAuthorizationFailure(err) {
			return err
		}
		return errors.Wrap(err, ErrProfileUnavailable.Category, ErrProfileUnavailable.Message).
			WithTextCode(ErrProfileUnavailable.TextCode)
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to encode profile")
	}

	s.mu.Lock()
	s.user = profile
	persistErr := s.storage.Set(StorageKeyProfile, string(raw))
	s.publishLocked()
	s.mu.Unlock()

	if persistErr != nil {
		s.logger.Warn("unable to persist profile: %v", persistErr)
	}

	return nil
}

// RestoreFromLocal rehydrates memory from durable storage. No network
// calls, idempotent; the cold-start path before any guard decision.
func (s *SessionStore) RestoreFromLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if token, ok := s.storage.Get(StorageKeyToken); ok {
		s.token = token
	}

	s.user = nil
	if raw, ok := s.storage.Get(StorageKeyProfile); ok {
		var profile UserProfile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			s.logger.Warn("discarding unreadable stored profile: %v", err)
		} else {
			s.user = &profile
		}
	}

	s.publishLocked()
}

// Logout drops the in-memory session and the durable snapshot in a single
// mutation; observers see one notification with both fields empty.
func (s *SessionStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	err := s.storage.Delete(StorageKeyToken, StorageKeyProfile)
	s.publishLocked()

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to clear stored session")
	}
	return nil
}

func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Current returns the in-memory profile, nil when none is loaded.
func (s *SessionStore) Current() *UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Busy reports whether a profile fetch is in flight. Advisory only, it does
// not serialize overlapping calls.
func (s *SessionStore) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// Role classifications are computed from the live profile on every call so
// they can never drift from it.

func (s *SessionStore) Role() Role {
	if user := s.Current(); user != nil {
		return user.Role
	}
	return ""
}

func (s *SessionStore) IsAdmin() bool {
	return s.Current().IsAdmin()
}

func (s *SessionStore) IsManager() bool {
	return s.Current().IsManager()
}

func (s *SessionStore) IsOperator() bool {
	return s.Current().IsOperator()
}

// Snapshot returns the current published state.
func (s *SessionStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionStore) setBusy(busy bool) {
	s.mu.Lock()
	if s.busy != busy {
		s.busy = busy
		s.publishLocked()
	}
	s.mu.Unlock()
}

func (s *SessionStore) snapshotLocked() Snapshot {
	return Snapshot{Token: s.token, User: s.user, Busy: s.busy}
}

func (s *SessionStore) publishLocked() {
	snap := s.snapshotLocked()
	for _, sub := range s.subs {
		sub.fn(snap)
	}
}
