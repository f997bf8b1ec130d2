// Package console is a Go client for the automation console backend. It
// covers the backend REST surface (auth, automations, runs, schedules,
// secrets, sectors, dashboards) and owns the client-side session lifecycle.
//
// Session lifecycle:
//   - Client is the single transport choke point. Its round tripper attaches
//     the stored bearer credential to every outbound request and clears the
//     durable session snapshot whenever any endpoint answers 401. The
//     original error still reaches the caller untouched.
//   - SessionStore is the sole mutator of the in-memory token and profile.
//     Every committed mutation is published synchronously to subscribers, so
//     downstream observers see changes in commit order.
//   - ProfileMirror is a read-only derived view of the profile, kept current
//     through a cancellable subscription and persisted on every change for
//     fast cold-start rendering.
//   - Guard gates route transitions: unauthenticated access to protected
//     routes redirects to login, and a cold load with a stored token
//     restores state synchronously before the transition proceeds.
//
// Durable storage is pluggable through the Storage interface. MemoryStorage
// backs tests and ephemeral sessions; store/bunstore persists across process
// restarts via SQLite.
package console
