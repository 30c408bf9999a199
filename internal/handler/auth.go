package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restspot/restspot/internal/config"
	"github.com/restspot/restspot/internal/model"
	"github.com/restspot/restspot/internal/repository"
	"github.com/restspot/restspot/internal/utils"
)

// CredentialsMailer delivers the temporary password of a freshly provisioned
// operator.  The mailer package satisfies it; tests supply fakes.
type CredentialsMailer interface {
	SendOperatorCredentials(ctx context.Context, email, name, tempPassword string) error
}

// AuthHandler bundles dependencies for auth and account endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Mail  CredentialsMailer
}

func NewAuthHandler(cfg config.Config, users UserStore, mail CredentialsMailer) *AuthHandler {
	if users == nil || mail == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users, Mail: mail}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type createOperatorReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login verifies credentials and sets the session cookie.  Bad credentials
// answer 400 with an identical message for unknown email and wrong password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or password"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID.Hex(), string(u.Role), h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	c.SetCookie(utils.SessionCookie(tok))
	return c.JSON(http.StatusOK, u.Summary())
}

// Logout clears the session cookie.  There is no server-side revocation
// list: the cleared token stays valid until its natural expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(utils.ExpiredSessionCookie())
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated caller's identity without credential fields.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, u.Summary())
}

// CreateOperator provisions an operator account with a generated temporary
// password and mails it to the new operator.  When the mail cannot be sent
// the temp password is returned in the response body instead of being
// silently dropped; the admin relays it out of band.
func (h *AuthHandler) CreateOperator(c echo.Context) error {
	admin, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	_ = admin // role already enforced by the route guard

	var req createOperatorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}
	if len(req.Name) > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name too long"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email"})
	}

	tempPassword, err := utils.GenerateTempPassword(12)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password generation failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	op, err := h.Users.Create(ctx, req.Name, req.Email, tempPassword, model.RoleOperator, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create operator failed"})
	}

	resp := echo.Map{"operator": op.Summary()}
	if err := h.Mail.SendOperatorCredentials(ctx, op.Email, op.Name, tempPassword); err != nil {
		resp["email_sent"] = false
		resp["temp_password"] = tempPassword
	} else {
		resp["email_sent"] = true
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListOperators returns every operator account with a count.
func (h *AuthHandler) ListOperators(c echo.Context) error {
	ops, err := h.Users.ListOperators(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]model.Summary, 0, len(ops))
	for i := range ops {
		out = append(out, ops[i].Summary())
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(out), "operators": out})
}
