package main

import (
	"net/http"

	"github.com/pecadorcelestial/panda-proxy/internal/gate"
	"github.com/pecadorcelestial/panda-proxy/internal/proxy"
	"github.com/pecadorcelestial/panda-proxy/internal/session"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires the session endpoints and the gated passthrough.
// Keep this file free of business logic.
func registerRoutes(r *gin.Engine, g *gate.Gate, sessions *session.Handler, fwd *proxy.Forwarder) {
	// Registered before the gate middleware, so they stay ungated.
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/login", sessions.Login)
	r.GET("/sign-off", sessions.SignOff)

	cookieGate := g.Middleware(gate.SourceCookie)
	headerGate := g.Middleware(gate.SourceHeader)

	// Surface selection: API and mobile clients send the raw token in
	// the Authorization header; the web portal relies on the session
	// cookie. A request carrying an Authorization header is judged on
	// that surface and never falls back to the cookie.
	r.Use(func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			headerGate(c)
			return
		}
		cookieGate(c)
	})

	// Everything the gate admits is forwarded to the business API.
	r.NoRoute(fwd.Handler())
}
