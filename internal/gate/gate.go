// Package gate is the per-request access decision pipeline: classify the
// path, extract and verify the credential, apply the bypass rules, and
// fall through to the permission resolver. Every failure is terminal for
// the request and surfaces as a 407 with an opaque message; the real
// reason goes to logs and the audit trail only.
package gate

import (
	"net/http"
	"strings"
	"time"

	"github.com/pecadorcelestial/panda-proxy/internal/audit"
	"github.com/pecadorcelestial/panda-proxy/internal/credential"
	"github.com/pecadorcelestial/panda-proxy/internal/permission"
	"github.com/pecadorcelestial/panda-proxy/internal/token"
	"github.com/pecadorcelestial/panda-proxy/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Source names the entry surface a request arrived on. The web portal
// sends the session cookie; mobile and API clients send the raw token in
// the Authorization header.
type Source string

const (
	SourceCookie Source = "cookie"
	SourceHeader Source = "header"
)

// Config is the immutable per-process gate configuration.
type Config struct {
	// Environment controls the non-production bypass: "local" and
	// "development" allow every verified caller regardless of
	// permissions. The bypass never skips signature checking.
	Environment string

	CookieName string
	Public     PublicPaths

	// Now is overridable for the weekday-quote tests.
	Now func() time.Time
}

type Gate struct {
	codec    *token.Codec
	resolver *permission.Resolver
	audit    *audit.Service
	cfg      Config
}

func New(codec *token.Codec, resolver *permission.Resolver, auditSvc *audit.Service, cfg Config) *Gate {
	if len(cfg.Public.Exact) == 0 && len(cfg.Public.Prefixes) == 0 {
		cfg.Public = DefaultPublicPaths()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Gate{codec: codec, resolver: resolver, audit: auditSvc, cfg: cfg}
}

// mobileAgentMarkers is the user-agent substring heuristic that exempts
// mobile web sessions from origin binding; native apps authenticate over
// the header surface and are exempt there as a whole.
var mobileAgentMarkers = []string{"Android", "iPhone", "iPad", "Mobile", "okhttp"}

func isMobileAgent(userAgent string) bool {
	for _, m := range mobileAgentMarkers {
		if strings.Contains(userAgent, m) {
			return true
		}
	}
	return false
}

// Middleware returns the gate for one entry surface.
//
// Audience/origin binding runs only on the cookie surface: a web session
// token is bound to the origin it was issued for, which blunts replay of
// a stolen cookie from another site. Header-based clients (mobile/API)
// are deliberately exempt; they have no browser origin to bind to.
func (g *Gate) Middleware(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		if g.cfg.Public.Contains(path) {
			c.Next()
			return
		}

		raw, found := g.extract(src, c)
		if !found {
			g.deny(c, src, token.Claims{}, "credential missing")
			return
		}

		claims, err := g.codec.Verify(raw, token.VerifyOptions{})
		if err != nil {
			g.deny(c, src, token.Claims{}, "token rejected: "+err.Error())
			return
		}

		if g.cfg.Environment == "local" || g.cfg.Environment == "development" {
			if g.audit != nil {
				g.audit.RecordEnvBypass(string(src), claims.User, path, method, c.ClientIP())
			}
			g.admit(c, claims)
			return
		}

		if claims.Caller().Trusted() {
			g.admit(c, claims)
			return
		}

		if src == SourceCookie && !isMobileAgent(c.GetHeader("User-Agent")) {
			if origin := c.GetHeader("Origin"); claims.FirstAudience() != origin {
				g.deny(c, src, claims, "audience does not match request origin")
				return
			}
		}

		decision, err := g.resolver.Evaluate(c.Request.Context(), claims.User, path, method)
		if err != nil {
			// Fail closed; the caller sees a plain denial, the cause
			// stays server-side.
			logger.FromGin(c).Error("permission service unavailable", "err", err, "user", claims.User, "path", path)
			g.deny(c, src, claims, "permission service unavailable")
			return
		}
		if !decision.Allowed {
			g.deny(c, src, claims, decision.Reason)
			return
		}

		g.admit(c, claims)
	}
}

func (g *Gate) extract(src Source, c *gin.Context) (string, bool) {
	switch src {
	case SourceCookie:
		return credential.FromCookies(c.GetHeader("Cookie"), g.cfg.CookieName)
	default:
		return credential.FromAuthorizationHeader(c.GetHeader("Authorization"))
	}
}

func (g *Gate) admit(c *gin.Context, claims token.Claims) {
	ctx := WithCaller(c.Request.Context(), claims.User, claims.Caller())
	c.Request = c.Request.WithContext(ctx)

	// Also store on gin context for handler convenience.
	c.Set("user", claims.User)
	c.Set("caller_type", string(claims.Caller()))

	c.Next()
}

func (g *Gate) deny(c *gin.Context, src Source, claims token.Claims, reason string) {
	logger.FromGin(c).Warn("access denied",
		"source", string(src),
		"user", claims.User,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"reason", reason,
	)
	if g.audit != nil {
		g.audit.RecordDenied(string(src), claims.User, string(claims.Caller()),
			c.Request.URL.Path, c.Request.Method, reason, c.ClientIP())
	}

	c.AbortWithStatusJSON(http.StatusProxyAuthRequired, gin.H{
		"message": rejectionMessage(g.cfg.Now()),
	})
}
