// Package session persists the authenticated identity in the user's browser
// between independent page loads.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Adams521/everything-gift/internal/models"
)

const (
	TokenCookie = "token"
	UserCookie  = "user"
)

// Store is the only way pages touch the identity. Swapping cookies for
// another backing mechanism must not require changes in callers.
type Store interface {
	Write(w http.ResponseWriter, id models.Identity) error
	Read(r *http.Request) (models.Identity, bool)
	Clear(w http.ResponseWriter)
}

// CookieStore keeps the token and the user record in two independent
// cookies. Nothing is signed or encrypted.
type CookieStore struct {
	secure bool
	maxAge int
}

var _ Store = (*CookieStore)(nil)

// NewCookieStore returns a store writing session cookies, or persistent
// ones when maxAge > 0.
func NewCookieStore(secure bool, maxAge int) *CookieStore {
	return &CookieStore{secure: secure, maxAge: maxAge}
}

func (s *CookieStore) Write(w http.ResponseWriter, id models.Identity) error {
	if id.Token == "" || id.User.Username == "" {
		return fmt.Errorf("session: identity requires token and username")
	}
	userJSON, err := json.Marshal(id.User)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	http.SetCookie(w, s.cookie(TokenCookie, url.QueryEscape(id.Token), s.maxAge))
	http.SetCookie(w, s.cookie(UserCookie, url.QueryEscape(string(userJSON)), s.maxAge))
	return nil
}

// Read never fails: anything missing or corrupted is reported as logged out.
func (s *CookieStore) Read(r *http.Request) (models.Identity, bool) {
	tokenCookie, err := r.Cookie(TokenCookie)
	if err != nil || tokenCookie.Value == "" {
		return models.Identity{}, false
	}
	userCookie, err := r.Cookie(UserCookie)
	if err != nil || userCookie.Value == "" {
		return models.Identity{}, false
	}

	token, err := url.QueryUnescape(tokenCookie.Value)
	if err != nil || strings.TrimSpace(token) == "" {
		slog.Debug("Discarding unreadable session token", "error", err)
		return models.Identity{}, false
	}
	raw, err := url.QueryUnescape(userCookie.Value)
	if err != nil {
		slog.Debug("Discarding unreadable session user", "error", err)
		return models.Identity{}, false
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Debug("Discarding corrupted session user", "error", err)
		return models.Identity{}, false
	}
	if user.Username == "" {
		return models.Identity{}, false
	}

	return models.Identity{Token: token, User: user}, true
}

func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(TokenCookie, "", -1))
	http.SetCookie(w, s.cookie(UserCookie, "", -1))
}

func (s *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
