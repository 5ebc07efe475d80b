// Package proxy forwards admitted requests to the downstream business
// API. The gate has already decided; this layer only carries the
// request across and stamps the verified identity onto it so the
// upstream never re-parses the token.
package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/pecadorcelestial/panda-proxy/internal/gate"
	"github.com/pecadorcelestial/panda-proxy/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Identity headers stamped on every forwarded request. Any value the
// client supplied under these names is discarded first.
const (
	HeaderUser       = "X-Proxy-User"
	HeaderCallerType = "X-Proxy-Caller-Type"
)

type Forwarder struct {
	rp *httputil.ReverseProxy
}

// NewForwarder builds a reverse proxy to the upstream business API.
// The upstream URL must be absolute.
func NewForwarder(upstream string) (*Forwarder, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, err
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()

			// Never trust client-supplied identity headers.
			pr.Out.Header.Del(HeaderUser)
			pr.Out.Header.Del(HeaderCallerType)
			if user, err := gate.User(pr.In.Context()); err == nil {
				pr.Out.Header.Set(HeaderUser, user)
			}
			if caller, err := gate.Caller(pr.In.Context()); err == nil {
				pr.Out.Header.Set(HeaderCallerType, string(caller))
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.From(r.Context()).Error("upstream request failed",
				"path", r.URL.Path, "err", err)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"message":"upstream unavailable"}`))
		},
	}
	return &Forwarder{rp: rp}, nil
}

// Handler adapts the forwarder to a gin catch-all route.
func (f *Forwarder) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		f.rp.ServeHTTP(c.Writer, c.Request)
	}
}
