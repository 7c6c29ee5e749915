package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("no valid session")

// SessionManager issues and verifies signed session tokens and persists
// the current one to a file so the CLI can resume a login.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	path   string
	now    func() time.Time
}

// NewSessionManager returns nil when no secret is configured; callers
// treat a nil manager as sessions-disabled.
func NewSessionManager(secret, path string, ttl time.Duration) *SessionManager {
	if secret == "" {
		return nil
	}
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		path:   path,
		now:    time.Now,
	}
}

// Issue signs a token for the user and writes it to the session file.
func (m *SessionManager) Issue(userID string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	if err := m.save(signed); err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses a token and returns the user id it was issued for.
func (m *SessionManager) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", ErrNoSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrNoSession
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrNoSession
	}
	return sub, nil
}

// Resume loads the session file and verifies the saved token.
func (m *SessionManager) Resume() (string, error) {
	body, err := os.ReadFile(m.path)
	if err != nil {
		return "", ErrNoSession
	}
	return m.Verify(strings.TrimSpace(string(body)))
}

// Clear removes the session file, signing the user out of future runs.
func (m *SessionManager) Clear() error {
	err := os.Remove(m.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (m *SessionManager) save(token string) error {
	if dir := filepath.Dir(m.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create session directory: %w", err)
		}
	}
	if err := os.WriteFile(m.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
