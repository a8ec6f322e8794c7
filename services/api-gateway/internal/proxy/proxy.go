package proxy

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/travel-marketplace/pkg/auth"
)

// Route maps a path prefix to an upstream service. Auth-required routes
// get the verified user id injected as X-User-Id; the upstream trusts
// that header only from the gateway.
type Route struct {
	Prefix      string
	Upstream    string
	RequireAuth bool
}

type Gateway struct {
	routes []routeProxy
}

type routeProxy struct {
	Route
	proxy *httputil.ReverseProxy
}

func New(routes []Route) (*Gateway, error) {
	g := &Gateway{}
	for _, r := range routes {
		target, err := url.Parse(r.Upstream)
		if err != nil {
			return nil, err
		}
		g.routes = append(g.routes, routeProxy{Route: r, proxy: httputil.NewSingleHostReverseProxy(target)})
	}
	return g, nil
}

func (g *Gateway) Register(r *gin.Engine) {
	r.Any("/api/*path", g.handle)
}

func (g *Gateway) handle(c *gin.Context) {
	path := c.Request.URL.Path
	for _, rt := range g.routes {
		if !strings.HasPrefix(path, rt.Prefix) {
			continue
		}
		// Never trust a client-supplied identity header.
		c.Request.Header.Del("X-User-Id")
		if rt.RequireAuth {
			claims, err := bearerClaims(c)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or missing token"})
				return
			}
			c.Request.Header.Set("X-User-Id", claims.Sub)
		}
		rt.proxy.ServeHTTP(c.Writer, c.Request)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "unknown route"})
}

func bearerClaims(c *gin.Context) (*auth.Claims, error) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, errors.New("missing bearer token")
	}
	return auth.ParseValidate(token)
}
