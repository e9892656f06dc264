package auth

import (
	"encoding/json"
	"net/http"
	"time"
)

// CookieName is the admin session cookie.
const CookieName = "admin_session"

const sessionTTL = 24 * time.Hour

// Session is the payload carried inside the encrypted cookie. It is
// never persisted server-side.
type Session struct {
	Authenticated bool  `json:"authenticated"`
	ExpiresAt     int64 `json:"expiresAt"`
}

// Manager issues and validates admin sessions.
type Manager struct {
	codec    *Codec
	password string
	secure   bool
}

func NewManager(password, encryptionKey string, secure bool) *Manager {
	return &Manager{
		codec:    NewCodec(encryptionKey),
		password: password,
		secure:   secure,
	}
}

// VerifyPassword compares a submitted password against the configured
// shared secret.
func (m *Manager) VerifyPassword(candidate string) bool {
	return candidate == m.password
}

// IssueCookie writes a fresh 24h session cookie.
func (m *Manager) IssueCookie(w http.ResponseWriter) error {
	session := Session{
		Authenticated: true,
		ExpiresAt:     time.Now().Add(sessionTTL).Unix(),
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	value, err := m.codec.Encrypt(string(payload))
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
	})
	return nil
}

// ClearCookie logs the admin out.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// Check reports whether the request carries a valid, unexpired session.
// A corrupt, tampered or expired cookie behaves exactly like a missing
// one.
func (m *Manager) Check(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	plaintext, err := m.codec.Decrypt(cookie.Value)
	if err != nil {
		return false
	}

	var session Session
	if err := json.Unmarshal([]byte(plaintext), &session); err != nil {
		return false
	}
	return session.Authenticated && session.ExpiresAt >= time.Now().Unix()
}
