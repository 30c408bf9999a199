package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers
    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/restspot/restspot/internal/model"
    "github.com/restspot/restspot/internal/utils"
)

// UserResolver looks up the account referenced by a session token.  The user
// repository satisfies it; tests supply fakes.
type UserResolver interface {
    FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// SessionAuth returns an Echo middleware that validates the session token and
// injects the caller's identity into the request context.  The token is read
// from the session cookie; a Bearer Authorization header is accepted as a
// fallback for non-browser clients.  The referenced user is re-resolved from
// the identity store on every request, so a token whose account has vanished
// is rejected even though its signature is still valid.  Handlers downstream
// read the identity via `c.Get("user")`, `c.Get("user_id")` and `c.Get("role")`.
func SessionAuth(secret string, users UserResolver) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := tokenFromRequest(c)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
            }
            sub, _, err := utils.ParseSessionToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
            }
            uid, err := primitive.ObjectIDFromHex(sub)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
            }
            // The role claim is advisory only; the stored role decides.
            u, err := users.FindByID(c.Request().Context(), uid)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown account"})
            }
            c.Set("user", u)
            c.Set("user_id", u.ID.Hex())
            c.Set("role", string(u.Role))
            return next(c)
        }
    }
}

// tokenFromRequest extracts the raw session token from the cookie or, when
// absent, from a Bearer Authorization header.
func tokenFromRequest(c echo.Context) string {
    if ck, err := c.Cookie(utils.SessionCookieName); err == nil && ck.Value != "" {
        return ck.Value
    }
    auth := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimPrefix(auth, "Bearer ")
    }
    return ""
}
