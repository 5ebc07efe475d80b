// Package session is the issuance side of the access pipeline: it turns
// a validated credential pair into a signed session token and manages
// the cookie transport the web portal uses. It shares the cookie
// constants with the gate that later verifies those sessions.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/pecadorcelestial/panda-proxy/internal/config"
	"github.com/pecadorcelestial/panda-proxy/internal/identity"
	"github.com/pecadorcelestial/panda-proxy/internal/token"
	"github.com/pecadorcelestial/panda-proxy/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Authenticator validates a credential pair downstream.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (identity.Account, error)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Handler struct {
	codec   *token.Codec
	auth    Authenticator
	limiter AttemptLimiter // nil disables throttling
	cfg     config.AuthConfig
	secure  bool
}

func NewHandler(codec *token.Codec, auth Authenticator, limiter AttemptLimiter, cfg config.AuthConfig, secureCookies bool) *Handler {
	return &Handler{codec: codec, auth: auth, limiter: limiter, cfg: cfg, secure: secureCookies}
}

// Login validates credentials downstream, signs a session token, and
// sets the session cookie. Web sessions are bound to the requesting
// origin through the aud claim; the gate enforces that binding later.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.Request.Context(), email)
		if err != nil {
			// Fail open: a broken limiter must not lock everyone out.
			logger.FromGin(c).Warn("login limiter unavailable", "err", err)
		} else if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "too many attempts, try again later"})
			return
		}
	}

	account, err := h.auth.Authenticate(c.Request.Context(), email, req.Password)
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	case err != nil:
		logger.FromGin(c).Error("credential validation unavailable", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "try again later"})
		return
	}

	claims := token.Claims{User: account.User, Type: token.CallerType(account.Type)}
	signed, err := h.codec.Sign(claims, token.SignOptions{
		Algorithm: token.AlgHS256,
		Audience:  c.GetHeader("Origin"),
	})
	if err != nil {
		logger.FromGin(c).Error("token signing failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not open session"})
		return
	}

	if h.limiter != nil {
		if err := h.limiter.Reset(c.Request.Context(), email); err != nil {
			logger.FromGin(c).Warn("login limiter reset failed", "err", err)
		}
	}

	c.SetCookie(h.cfg.CookieName, signed, int(h.cfg.CookieMaxAge.Seconds()), "/", h.cfg.CookieDomain, h.secure, true)
	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user":  account.User,
		"type":  claims.Caller(),
	})
}

// SignOff expires the session cookie. The token itself simply ages out;
// no server-side revocation state is kept.
func (h *Handler) SignOff(c *gin.Context) {
	c.SetCookie(h.cfg.CookieName, "", -1, "/", h.cfg.CookieDomain, h.secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "session closed"})
}
