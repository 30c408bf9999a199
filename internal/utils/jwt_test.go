package utils

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", "64f000000000000000000001", "OPERATOR", 7)
	assert.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.True(t, tok.Exp.After(time.Now().Add(6*24*time.Hour)))

	sub, role, err := ParseSessionToken("secret", tok.Token)
	assert.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", sub)
	assert.Equal(t, "OPERATOR", role)
}

func TestSessionToken_WrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret", "u1", "ADMIN", 1)
	assert.NoError(t, err)

	_, _, err = ParseSessionToken("other-secret", tok.Token)
	assert.Error(t, err)
}

func TestSessionToken_Expired(t *testing.T) {
	// A negative TTL signs a token that expired a day ago.
	tok, err := NewSessionToken("secret", "u1", "ADMIN", -1)
	assert.NoError(t, err)

	_, _, err = ParseSessionToken("secret", tok.Token)
	assert.Error(t, err)
}

func TestSessionToken_Garbage(t *testing.T) {
	_, _, err := ParseSessionToken("secret", "not-a-token")
	assert.Error(t, err)
}

func TestSessionCookie_Attributes(t *testing.T) {
	tok, err := NewSessionToken("secret", "u1", "ADMIN", 7)
	assert.NoError(t, err)

	ck := SessionCookie(tok)
	assert.Equal(t, SessionCookieName, ck.Name)
	assert.Equal(t, tok.Token, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, "/", ck.Path)
}

func TestExpiredSessionCookie(t *testing.T) {
	ck := ExpiredSessionCookie()
	assert.Equal(t, SessionCookieName, ck.Name)
	assert.Empty(t, ck.Value)
	assert.Equal(t, -1, ck.MaxAge)
	assert.True(t, ck.HttpOnly)
}

func TestSessionToken_MissingSubject(t *testing.T) {
	tok, err := NewSessionToken("secret", "", "ADMIN", 7)
	assert.NoError(t, err)

	_, _, err = ParseSessionToken("secret", tok.Token)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "subject"))
}
