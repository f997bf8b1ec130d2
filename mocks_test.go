package console_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	console "github.com/operato/go-console"
)

// MockAuthAPI implements console.AuthAPI
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (*console.Credential, error) {
	args := m.Called(ctx, email, password)
	var cred *console.Credential
	if v := args.Get(0); v != nil {
		cred = v.(*console.Credential)
	}
	return cred, args.Error(1)
}

func (m *MockAuthAPI) Me(ctx context.Context) (*console.UserProfile, error) {
	args := m.Called(ctx)
	var profile *console.UserProfile
	if v := args.Get(0); v != nil {
		profile = v.(*console.UserProfile)
	}
	return profile, args.Error(1)
}

// fakeBackend is an httptest stand-in for the console backend. It mints and
// verifies real HS256 tokens the way the backend does; the client under
// test still treats them as opaque strings.
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server
	secret []byte

	mu        sync.Mutex
	user      console.UserProfile
	email     string
	password  string
	loginBody map[string]any // overrides the login response when set
	revoked   bool           // makes every authenticated endpoint answer 401
	meCalls   int
	lastAuth  string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{
		t:        t,
		secret:   []byte("test-signing-secret"),
		email:    "user@example.com",
		password: "pw",
		user: console.UserProfile{
			ID:    uuid.New(),
			Name:  "Test User",
			Email: "user@example.com",
			Role:  console.RoleManager,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", fb.handleLogin)
	mux.HandleFunc("GET /auth/me", fb.handleMe)
	mux.HandleFunc("POST /auth/register", fb.handleRegister)
	mux.HandleFunc("GET /automations", fb.authenticated(fb.handleListAutomations))
	mux.HandleFunc("POST /automations", fb.authenticated(fb.handleCreateAutomation))
	mux.HandleFunc("GET /sectors/", fb.authenticated(fb.handleListSectors))
	mux.HandleFunc("GET /runs", fb.authenticated(fb.handleListRuns))
	mux.HandleFunc("POST /runs", fb.authenticated(fb.handleCreateRun))

	fb.server = httptest.NewServer(mux)
	t.Cleanup(fb.server.Close)

	return fb
}

func (fb *fakeBackend) URL() string {
	return fb.server.URL
}

func (fb *fakeBackend) setLoginBody(body map[string]any) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.loginBody = body
}

func (fb *fakeBackend) revokeSessions() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.revoked = true
}

func (fb *fakeBackend) profileFetches() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.meCalls
}

func (fb *fakeBackend) lastAuthorization() string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.lastAuth
}

func (fb *fakeBackend) mintToken() string {
	fb.t.Helper()

	claims := jwt.MapClaims{
		"sub": fb.user.ID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(fb.secret)
	if err != nil {
		fb.t.Fatalf("mint token: %v", err)
	}
	return token
}

// authorize validates the bearer credential the way the backend does.
func (fb *fakeBackend) authorize(r *http.Request) bool {
	fb.mu.Lock()
	fb.lastAuth = r.Header.Get("Authorization")
	revoked := fb.revoked
	fb.mu.Unlock()

	if revoked {
		return false
	}

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}

	raw := strings.TrimPrefix(header, "Bearer ")
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		return fb.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	return err == nil && parsed.Valid
}

func (fb *fakeBackend) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !fb.authorize(r) {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next(w, r)
	}
}

func (fb *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}

	fb.mu.Lock()
	override := fb.loginBody
	fb.mu.Unlock()

	if override != nil {
		writeJSON(w, http.StatusOK, override)
		return
	}

	if body.Email != fb.email || body.Password != fb.password {
		writeDetail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": fb.mintToken(),
		"token_type":   "bearer",
	})
}

func (fb *fakeBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	fb.meCalls++
	fb.mu.Unlock()

	if !fb.authorize(r) {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	fb.mu.Lock()
	user := fb.user
	fb.mu.Unlock()
	writeJSON(w, http.StatusOK, user)
}

func (fb *fakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body console.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if body.Email == fb.email {
		writeDetail(w, http.StatusConflict, "email already registered")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":      true,
		"user_id": uuid.New().String(),
	})
}

func (fb *fakeBackend) handleListAutomations(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grouped") == "true" {
		writeJSON(w, http.StatusOK, []map[string]any{
			{
				"group": "mine",
				"title": "My automations",
				"automations": []map[string]any{
					{"id": uuid.New().String(), "name": "report-sync", "owner_type": "user", "owner_id": fb.user.ID.String()},
				},
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, []map[string]any{
		{"id": uuid.New().String(), "name": "report-sync", "owner_type": "user", "owner_id": fb.user.ID.String()},
		{"id": uuid.New().String(), "name": "invoice-ocr", "owner_type": "sector", "owner_id": uuid.New().String(), "sector": "Finance"},
	})
}

func (fb *fakeBackend) handleCreateAutomation(w http.ResponseWriter, r *http.Request) {
	var body console.AutomationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         uuid.New().String(),
		"name":       body.Name,
		"owner_type": "user",
		"owner_id":   fb.user.ID.String(),
		"enabled":    true,
	})
}

func (fb *fakeBackend) handleListSectors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]any{
		{"id": uuid.New().String(), "name": "Finance"},
		{"id": uuid.New().String(), "name": "Operations"},
	})
}

func (fb *fakeBackend) handleListRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]any{
		{
			"id":            uuid.New().String(),
			"automation_id": uuid.New().String(),
			"status":        "success",
		},
	})
}

func (fb *fakeBackend) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var body console.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":            uuid.New().String(),
		"automation_id": uuid.New().String(),
		"status":        "queued",
		"payload":       body.Payload,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}
