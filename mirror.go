package console

import (
	"encoding/json"
	"sync"
)

// ProfileMirror is a read-optimized derived view of the session profile.
// It tracks the SessionStore through a subscription and persists its own
// copy so a cold start can render identity data before any network call.
// The mirror never mutates the session; it is a pure downstream observer.
type ProfileMirror struct {
	mu      sync.Mutex
	session *SessionStore
	storage Storage
	logger  Logger

	profile *UserProfile
	unsub   func()
}

func NewProfileMirror(session *SessionStore, storage Storage) *ProfileMirror {
	return &ProfileMirror{
		session: session,
		storage: storage,
		logger:  defLogger{},
	}
}

func (m *ProfileMirror) WithLogger(logger Logger) *ProfileMirror {
	m.logger = logger
	return m
}

// Init seeds the mirror from the session's current profile and then
// subscribes. The seed pass is mandatory: the subscription only fires on
// future changes, so without it a profile loaded before Init would never
// reach the mirror. Calling Init again first drops the previous
// subscription, so listeners never accumulate.
func (m *ProfileMirror) Init() {
	m.Dispose()

	m.setProfile(m.session.Current())

	unsub := m.session.Subscribe(func(snap Snapshot) {
		m.setProfile(snap.User)
	})

	m.mu.Lock()
	m.unsub = unsub
	m.mu.Unlock()
}

// Dispose cancels the subscription. Idempotent and safe to call when no
// subscription is active.
func (m *ProfileMirror) Dispose() {
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// setProfile replaces the mirrored profile and re-persists it. A nil
// profile clears both the field and the stored entry.
func (m *ProfileMirror) setProfile(profile *UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if profile == nil {
		m.profile = nil
		if err := m.storage.Delete(StorageKeyProfile); err != nil {
			m.logger.Warn("unable to clear mirrored profile: %v", err)
		}
		return
	}

	copied := *profile
	m.profile = &copied

	raw, err := json.Marshal(m.profile)
	if err != nil {
		m.logger.Warn("unable to encode mirrored profile: %v", err)
		return
	}
	if err := m.storage.Set(StorageKeyProfile, string(raw)); err != nil {
		m.logger.Warn("unable to persist mirrored profile: %v", err)
	}
}

// Profile returns the mirrored profile, nil when unauthenticated.
func (m *ProfileMirror) Profile() *UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

func (m *ProfileMirror) IsAuthenticated() bool {
	return m.Profile() != nil
}

func (m *ProfileMirror) Name() string {
	if profile := m.Profile(); profile != nil {
		return profile.Name
	}
	return ""
}

func (m *ProfileMirror) Email() string {
	if profile := m.Profile(); profile != nil {
		return profile.Email
	}
	return ""
}

func (m *ProfileMirror) Role() Role {
	if profile := m.Profile(); profile != nil {
		return profile.Role
	}
	return ""
}

func (m *ProfileMirror) IsAdmin() bool {
	return m.Profile().IsAdmin()
}

func (m *ProfileMirror) IsManager() bool {
	return m.Profile().IsManager()
}

func (m *ProfileMirror) IsOperator() bool {
	return m.Profile().IsOperator()
}
