package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "net/http" // cookie construction for the session transport
    "time"     // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "session"

// SessionToken represents a signed JWT session token along with its expiry.
// Session tokens are long-lived (days) and carried in an HTTP-only cookie;
// there is no server-side revocation list, so a captured token stays valid
// until natural expiry.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a user.  The JWT carries
// the subject (user id), the role and the standard exp/iat claims.
func NewSessionToken(secret, userID, role string, ttlDays int) (SessionToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a signed session token and returns the subject
// and role claims.  It rejects tokens signed with a non-HMAC method, bad
// signatures and expired tokens.
func ParseSessionToken(secret, raw string) (userID, role string, err error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return "", "", errors.New("invalid token")
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", "", errors.New("invalid claims")
    }
    sub, _ := claims["sub"].(string)
    r, _ := claims["role"].(string)
    if sub == "" {
        return "", "", errors.New("missing subject")
    }
    return sub, r, nil
}

// SessionCookie wraps a session token in an HTTP-only, SameSite=Strict
// cookie.  HttpOnly keeps the token away from page scripts; Strict blocks
// cross-site sends.
func SessionCookie(tok SessionToken) *http.Cookie {
    return &http.Cookie{
        Name:     SessionCookieName,
        Value:    tok.Token,
        Path:     "/",
        Expires:  tok.Exp,
        HttpOnly: true,
        SameSite: http.SameSiteStrictMode,
    }
}

// ExpiredSessionCookie returns a cookie that instructs the client to drop its
// session.  Logout is client-side deletion only; the token itself remains
// valid until it expires.
func ExpiredSessionCookie() *http.Cookie {
    return &http.Cookie{
        Name:     SessionCookieName,
        Value:    "",
        Path:     "/",
        MaxAge:   -1,
        HttpOnly: true,
        SameSite: http.SameSiteStrictMode,
    }
}
