package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/nuriajuanca/casamiento/internal/auth"
	"github.com/nuriajuanca/casamiento/internal/config"
	"github.com/nuriajuanca/casamiento/internal/database"
)

const (
	testPassword = "wedding2025"
	testKey      = "wedding-admin-encryption-key-32char"
)

// testServer satisfies the Server interface with a sqlmock-backed store.
type testServer struct {
	store    *database.Store
	cfg      *config.Config
	sessions *auth.Manager
}

func (s *testServer) Store() *database.Store  { return s.store }
func (s *testServer) Config() *config.Config  { return s.cfg }
func (s *testServer) Sessions() *auth.Manager { return s.sessions }

func newTestServer(t *testing.T) (*testServer, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	srv := &testServer{
		store: database.NewStore(database.NewNeonClientWithDB(db)),
		cfg: &config.Config{
			AdminPassword: testPassword,
			EncryptionKey: testKey,
			WeddingDate:   time.Date(2025, 11, 8, 16, 0, 0, 0, time.UTC),
			BaseURL:       "http://localhost:8080",
			Env:           "development",
		},
		sessions: auth.NewManager(testPassword, testKey, false),
	}
	return srv, mock
}

// sessionCookie returns a freshly issued admin session cookie.
func sessionCookie(t *testing.T, srv *testServer) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, srv.sessions.IssueCookie(rec))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

// postForm builds an authenticated or anonymous form POST.
func postForm(target string, form url.Values, cookie *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		r.AddCookie(cookie)
	}
	return r
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) actionResult {
	t.Helper()
	var result actionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	return result
}
