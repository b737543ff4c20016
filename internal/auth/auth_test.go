package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfg = Config{Secret: "test-secret", Issuer: "taskday-test"}

func TestIssueAndParse(t *testing.T) {
	token, err := Issue(cfg, "ana", []string{ScopeRead, ScopeWrite}, time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := Parse(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Subject)
	assert.True(t, claims.HasScope(ScopeWrite))
	assert.False(t, claims.HasScope("admin"))
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 2*time.Second)
}

func TestParse_Rejects(t *testing.T) {
	expired, _ := Issue(cfg, "ana", nil, time.Minute, time.Now().Add(-time.Hour))
	wrongIssuer, _ := Issue(Config{Secret: cfg.Secret, Issuer: "other"}, "ana", nil, time.Hour, time.Now())
	wrongSecret, _ := Issue(Config{Secret: "nope", Issuer: cfg.Issuer}, "ana", nil, time.Hour, time.Now())
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ana", "iss": cfg.Issuer}).
		SignedString([]byte(cfg.Secret))
	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iss": cfg.Issuer, "exp": time.Now().Add(time.Hour).Unix()}).
		SignedString([]byte(cfg.Secret))

	tests := map[string]string{
		"expired":      expired,
		"wrong issuer": wrongIssuer,
		"wrong secret": wrongSecret,
		"no exp":       noExp,
		"no subject":   noSub,
		"garbage":      "not-a-jwt",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(token, cfg)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}

	_, err := Parse("  ", cfg)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestNormalizeScopes_SpaceSeparated(t *testing.T) {
	scopes := normalizeScopes("taskday:read  taskday:write")
	assert.Len(t, scopes, 2)
}

func TestIssue_RequiresSubject(t *testing.T) {
	_, err := Issue(cfg, "", nil, time.Hour, time.Now())
	assert.Error(t, err)
}

func newRouter(m Middleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Handler())
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/me", func(c *gin.Context) {
		claims, ok := FromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.Subject)
	})
	r.POST("/write", RequireScope(ScopeWrite), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestMiddleware(t *testing.T) {
	m := NewMiddleware(cfg, func(r *http.Request) bool { return r.URL.Path == "/healthz" })
	r := newRouter(m)
	readOnly, _ := Issue(cfg, "ana", []string{ScopeRead}, time.Hour, time.Now())
	writer, _ := Issue(cfg, "bo", []string{ScopeRead, ScopeWrite}, time.Hour, time.Now())

	do := func(method, path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, do("GET", "/healthz", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("GET", "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("GET", "/me", "Basic abc").Code)

	w := do("GET", "/me", "Bearer "+readOnly)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana", w.Body.String())

	assert.Equal(t, http.StatusForbidden, do("POST", "/write", "Bearer "+readOnly).Code)
	assert.Equal(t, http.StatusNoContent, do("POST", "/write", "Bearer "+writer).Code)
}
