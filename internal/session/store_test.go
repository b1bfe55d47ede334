package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adams521/everything-gift/internal/models"
)

// carry copies the cookies set on a response into a fresh request, like a
// browser would on the next page load.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

func TestCookieStore_WriteThenRead(t *testing.T) {
	store := NewCookieStore(false, 0)
	id := models.Identity{
		Token: "eyJhbGciOiJIUzI1NiJ9.payload.sig",
		User:  models.User{Username: "小明, \"the\" admin", Role: models.RoleAdmin},
	}

	rec := httptest.NewRecorder()
	require.NoError(t, store.Write(rec, id))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.True(t, c.HttpOnly)
		assert.Equal(t, "/", c.Path)
	}

	got, ok := store.Read(carry(rec))
	require.True(t, ok)
	assert.Equal(t, id, got)

	// Reading is idempotent.
	again, ok := store.Read(carry(rec))
	require.True(t, ok)
	assert.Equal(t, got, again)
}

func TestCookieStore_WriteRejectsPartialIdentity(t *testing.T) {
	store := NewCookieStore(false, 0)
	rec := httptest.NewRecorder()

	err := store.Write(rec, models.Identity{Token: "t"})

	assert.Error(t, err)
	assert.Empty(t, rec.Result().Cookies())
}

func TestCookieStore_ReadTreatsCorruptionAsLoggedOut(t *testing.T) {
	tests := []struct {
		name    string
		cookies map[string]string
	}{
		{"no cookies", nil},
		{"token only", map[string]string{TokenCookie: "abc"}},
		{"user only", map[string]string{UserCookie: "%7B%22username%22%3A%22a%22%7D"}},
		{"user not json", map[string]string{TokenCookie: "abc", UserCookie: "not-json"}},
		{"user truncated json", map[string]string{TokenCookie: "abc", UserCookie: "%7B%22username%22"}},
		{"user bad escape", map[string]string{TokenCookie: "abc", UserCookie: "%zz"}},
		{"user without username", map[string]string{TokenCookie: "abc", UserCookie: "%7B%7D"}},
		{"user json array", map[string]string{TokenCookie: "abc", UserCookie: "%5B1%2C2%5D"}},
	}

	store := NewCookieStore(false, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for name, value := range tt.cookies {
				req.AddCookie(&http.Cookie{Name: name, Value: value})
			}

			assert.NotPanics(t, func() {
				_, ok := store.Read(req)
				assert.False(t, ok)
			})
		})
	}
}

func TestCookieStore_Clear(t *testing.T) {
	store := NewCookieStore(true, 3600)
	rec := httptest.NewRecorder()

	store.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	names := []string{cookies[0].Name, cookies[1].Name}
	assert.ElementsMatch(t, []string{TokenCookie, UserCookie}, names)
	for _, c := range cookies {
		assert.Negative(t, c.MaxAge)
		assert.Empty(t, c.Value)
		assert.True(t, c.Secure)
	}

	_, ok := store.Read(carry(rec))
	assert.False(t, ok)
}
