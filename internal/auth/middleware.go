package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type contextKey string

const claimsKey contextKey = "taskday-auth-claims"

// WithClaims stores claims on the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// FromContext retrieves claims stored by WithClaims.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// Skipper allows callers to bypass authentication for specific requests.
type Skipper func(r *http.Request) bool

// Middleware validates bearer tokens on gin routes.
type Middleware struct {
	Config  Config
	Skipper Skipper
	// OnError writes the rejection; it must abort the context.
	OnError func(c *gin.Context, err error)
}

func NewMiddleware(cfg Config, skipper Skipper) Middleware {
	return Middleware{Config: cfg, Skipper: skipper}
}

// Handler returns the gin handler. Validated claims are placed on the
// request context.
func (m Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.Skipper != nil && m.Skipper(c.Request) {
			c.Next()
			return
		}

		claims, err := m.parseRequest(c.Request)
		if err != nil {
			if m.OnError != nil {
				m.OnError(c, err)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": err.Error()})
			return
		}
		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// RequireScope aborts with 403 unless the request's claims carry at least
// one of scopes.
func RequireScope(scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := FromContext(c.Request.Context())
		for _, scope := range scopes {
			if claims.HasScope(scope) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "missing scope " + strings.Join(scopes, " or ")})
	}
}

func (m Middleware) parseRequest(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrMissingToken
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return nil, ErrInvalidToken
	}
	token := strings.TrimSpace(header[len("Bearer "):])
	return Parse(token, m.Config)
}
