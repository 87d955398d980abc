package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_issues/internal/auth"
	"transit_issues/internal/middleware"
)

func echoRouter(t *testing.T, v auth.Verifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identify(v))
	r.GET("/whoami", func(c *gin.Context) {
		sub, ok := middleware.Subject(c)
		c.JSON(http.StatusOK, gin.H{"sub": sub, "authenticated": ok})
	})
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentifyValidToken(t *testing.T) {
	v := auth.NewLocalVerifier("test-secret")
	r := echoRouter(t, v)

	token, err := v.Mint("user-a")
	require.NoError(t, err)

	w := get(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sub":"user-a","authenticated":true}`, w.Body.String())
}

// Verification failures never abort the request; they degrade to anonymous.
func TestIdentifyDegradesToAnonymous(t *testing.T) {
	v := auth.NewLocalVerifier("test-secret")
	r := echoRouter(t, v)

	for _, authorization := range []string{
		"",
		"Bearer not-a-token",
		"Basic dXNlcjpwYXNz",
		"Bearer ",
	} {
		w := get(r, authorization)
		require.Equal(t, http.StatusOK, w.Code, "authorization %q", authorization)
		assert.JSONEq(t, `{"sub":"","authenticated":false}`, w.Body.String())
	}
}

// A token signed with a different secret is someone else's token.
func TestIdentifyRejectsForeignSecret(t *testing.T) {
	foreign := auth.NewLocalVerifier("other-secret")
	token, err := foreign.Mint("user-a")
	require.NoError(t, err)

	r := echoRouter(t, auth.NewLocalVerifier("test-secret"))
	w := get(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sub":"","authenticated":false}`, w.Body.String())
}
