package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxmail/panel/api"
	"github.com/oxmail/panel/core/auth"
	"github.com/oxmail/panel/core/email"
	"github.com/oxmail/panel/core/passreset"
	"github.com/oxmail/panel/core/session"
	"github.com/oxmail/panel/core/user"
	"github.com/oxmail/panel/middleware"
	"github.com/oxmail/panel/pkg/password"
)

type stubUserStore struct {
	mu        sync.Mutex
	byName    map[string]user.PanelUser
	byBackup  map[string]user.PanelUser
	passwords map[int64]string
	lookupErr error
	updateErr error
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{
		byName:    make(map[string]user.PanelUser),
		byBackup:  make(map[string]user.PanelUser),
		passwords: make(map[int64]string),
	}
}

func (s *stubUserStore) add(u user.PanelUser) {
	s.byName[u.Username] = u
	if u.BackupEmail != "" {
		s.byBackup[u.BackupEmail] = u
	}
}

func (s *stubUserStore) GetByID(_ context.Context, id int64) (*user.PanelUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	for _, u := range s.byName {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *stubUserStore) GetByUsername(_ context.Context, username string) (*user.PanelUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	u, ok := s.byName[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *stubUserStore) GetByBackupEmail(_ context.Context, addr string) (*user.PanelUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	u, ok := s.byBackup[addr]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *stubUserStore) UpdatePassword(_ context.Context, accountID int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.passwords[accountID] = hash
	return nil
}

type captureEnqueuer struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
}

func (c *captureEnqueuer) Enqueue(params email.SendEmailParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, params)
}

func (c *captureEnqueuer) all() []email.SendEmailParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]email.SendEmailParams(nil), c.sent...)
}

// testEnv wires real session and reset managers over a temp bolt store, with
// a stubbed user store and captured email. The mux is wrapped with the
// session middleware so handlers see the same chain production does.
type testEnv struct {
	mux      http.Handler
	users    *stubUserStore
	sessions *session.Manager
	resets   *passreset.Manager
	mail     *captureEnqueuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := session.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	env := &testEnv{
		users: newStubUserStore(),
		mail:  &captureEnqueuer{},
	}
	env.sessions = session.NewManager(store)
	env.resets = passreset.NewManager(env.mail, "https://panel.example.com")

	h := api.NewHandler(env.sessions, env.users, env.resets, auth.NewResolver(env.users))
	mux := http.NewServeMux()
	h.Routes(mux)
	env.mux = middleware.Session(env.sessions)(mux)
	return env
}

func (e *testEnv) addUser(t *testing.T, u user.PanelUser, plaintext string) user.PanelUser {
	t.Helper()
	hash, err := password.Hash(plaintext)
	require.NoError(t, err)
	u.PasswordHash = hash
	e.users.add(u)
	return u
}

func postJSON(t *testing.T, mux http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success sets cookie and returns user", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.addUser(t, user.PanelUser{
			ID:       42,
			Username: "john",
			Active:   true,
			GroupPermissions: user.GroupPermissions{
				ModifyAccounts: true,
			},
		}, "hunter22")

		rec := postJSON(t, env.mux, "/auth/login", map[string]string{
			"username": "john", "password": "hunter22",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			User    user.PanelUser  `json:"user"`
			Session session.Session `json:"session"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.User.ID)
		assert.Len(t, resp.Session.ID, 7)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, middleware.SessionCookieName, c.Name)
		assert.Equal(t, resp.Session.ID, c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
		assert.Zero(t, c.MaxAge, "cookie must be browser-session scoped")

		// The session is live in the store.
		sess, err := env.sessions.Get(context.Background(), resp.Session.ID)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, int64(42), sess.UserID)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.addUser(t, user.PanelUser{ID: 1, Username: "john"}, "correct")

		rec := postJSON(t, env.mux, "/auth/login", map[string]string{
			"username": "john", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user is unauthorized", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		rec := postJSON(t, env.mux, "/auth/login", map[string]string{
			"username": "ghost", "password": "whatever",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields are a client fault", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		rec := postJSON(t, env.mux, "/auth/login", map[string]string{"username": "john"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure is a server fault", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.users.lookupErr = errors.New("connection refused")
		rec := postJSON(t, env.mux, "/auth/login", map[string]string{
			"username": "john", "password": "hunter22",
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestMe(t *testing.T) {
	t.Parallel()

	t.Run("login cookie replays into a hydrated identity", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.addUser(t, user.PanelUser{
			ID:       42,
			Username: "john",
			Active:   true,
			GroupPermissions: user.GroupPermissions{
				ModifyAccounts: true,
			},
		}, "hunter22")

		loginRec := postJSON(t, env.mux, "/auth/login", map[string]string{
			"username": "john", "password": "hunter22",
		})
		require.Equal(t, http.StatusOK, loginRec.Code)
		cookies := loginRec.Result().Cookies()
		require.Len(t, cookies, 1)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		env.mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			User         user.PanelUser `json:"user"`
			Capabilities struct {
				ManageUsers  bool `json:"manage_users"`
				ManageSystem bool `json:"manage_system"`
			} `json:"capabilities"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.User.ID)
		assert.True(t, resp.Capabilities.ManageUsers)
		assert.False(t, resp.Capabilities.ManageSystem)
	})

	t.Run("no session is unauthorized", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		rec := httptest.NewRecorder()
		env.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer header is rejected before the handler", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer sometoken")
		rec := httptest.NewRecorder()
		env.mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("session header authenticates", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.addUser(t, user.PanelUser{ID: 42, Username: "john", Active: true}, "pw")
		sess, err := env.sessions.Create(context.Background(), 42, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "session "+sess.ID)
		rec := httptest.NewRecorder()
		env.mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	sess, err := env.sessions.Create(context.Background(), 42, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The session is gone and the cookie is expired.
	got, err := env.sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	// Logging out without a cookie is still a 204.
	rec = httptest.NewRecorder()
	env.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addUser(t, user.PanelUser{
		ID:          7,
		Username:    "jane",
		BackupEmail: "backup@example.com",
	}, "old-password")

	// Request: always 204, email captured with the token link.
	rec := postJSON(t, env.mux, "/auth/reset/request", map[string]string{
		"backup_email": "backup@example.com",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	sent := env.mail.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "backup@example.com", sent[0].SendTo)

	pending := env.resets.Get(tokenFromLink(t, sent[0].BodyText))
	require.NotNil(t, pending)
	assert.Equal(t, int64(7), pending.AccountID)
	token := pending.Token

	// Verify: 204 for a live token.
	req := httptest.NewRequest(http.MethodGet, "/auth/reset/verify/"+token, nil)
	rec = httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Submit: stores the new hash and consumes the token.
	rec = postJSON(t, env.mux, "/auth/reset/submit/"+token, map[string]string{
		"password": "new-password",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	newHash := env.users.passwords[7]
	require.NotEmpty(t, newHash)
	ok, err := password.Verify("new-password", newHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// The token is single-use.
	rec = postJSON(t, env.mux, "/auth/reset/submit/"+token, map[string]string{
		"password": "another",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/reset/verify/"+token, nil)
	rec = httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPasswordResetRequestDoesNotEnumerate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := postJSON(t, env.mux, "/auth/reset/request", map[string]string{
		"backup_email": "nobody@example.com",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.mail.all())
}

func TestPasswordResetSubmitKeepsTokenOnStoreFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.addUser(t, user.PanelUser{
		ID: 7, Username: "jane", BackupEmail: "backup@example.com",
	}, "old")

	pending, err := env.resets.Request(7, "jane", "backup@example.com")
	require.NoError(t, err)

	env.users.updateErr = errors.New("connection refused")
	rec := postJSON(t, env.mux, "/auth/reset/submit/"+pending.Token, map[string]string{
		"password": "new",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotNil(t, env.resets.Get(pending.Token), "token must survive for a retry")
}

func TestPasswordResetVerifyUnknownToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/auth/reset/verify/nope", nil)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// tokenFromLink extracts the trailing path segment of the reset link in the
// plain-text email body.
func tokenFromLink(t *testing.T, body string) string {
	t.Helper()
	const marker = "/reset/"
	i := bytes.LastIndex([]byte(body), []byte(marker))
	require.GreaterOrEqual(t, i, 0, "reset link missing from email body")
	rest := body[i+len(marker):]
	for j := 0; j < len(rest); j++ {
		c := rest[j]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return rest[:j]
		}
	}
	return rest
}
