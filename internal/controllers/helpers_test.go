package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"transit_issues/internal/auth"
	"transit_issues/internal/controllers"
	"transit_issues/internal/repo"
	"transit_issues/internal/routes"
	"transit_issues/internal/storage/memstore"
)

// setupServer wires the full router over an in-memory store and the local
// HS256 verifier, mirroring the production wiring in cmd/server.
func setupServer(t *testing.T) (*gin.Engine, *auth.LocalVerifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier := auth.NewLocalVerifier("test-secret")
	repository := repo.New(memstore.New())
	router := routes.SetupRouter(
		controllers.NewStopController(repository),
		controllers.NewIssueController(repository),
		controllers.NewAuthController(verifier),
		verifier,
	)
	return router, verifier
}

func mint(t *testing.T, v *auth.LocalVerifier, subject string) string {
	t.Helper()
	token, err := v.Mint(subject)
	require.NoError(t, err)
	return token
}

// do runs one request against the router. A non-empty token goes out as a
// bearer credential; a non-nil body is sent as JSON.
func do(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// newRawRequest hands back an unsent request for tests that need full
// header control (e.g. Accept negotiation).
func newRawRequest(t *testing.T, method, path string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	return httptest.NewRequest(method, path, nil), httptest.NewRecorder()
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}

// Response shapes as clients see them.

type refBody struct {
	ID   int64  `json:"id"`
	Self string `json:"self"`
}

type stopBody struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Ridership *float64  `json:"ridership"`
	Geometry  string    `json:"geometry"`
	Issues    []refBody `json:"issues"`
	Self      string    `json:"self"`
}

type issueBody struct {
	ID          int64    `json:"id"`
	Priority    string   `json:"priority"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	User        string   `json:"user"`
	Stop        *refBody `json:"stop"`
	Self        string   `json:"self"`
}

type errorBody struct {
	Error string `json:"Error"`
}

func createStopHTTP(t *testing.T, router *gin.Engine, name string, lat, lon float64) stopBody {
	t.Helper()
	w := do(t, router, http.MethodPost, "/stops", "", gin.H{"name": name, "lat": lat, "lon": lon})
	require.Equal(t, http.StatusCreated, w.Code)
	var body stopBody
	decode(t, w, &body)
	return body
}

func createIssueHTTP(t *testing.T, router *gin.Engine, token string) issueBody {
	t.Helper()
	w := do(t, router, http.MethodPost, "/issues", token, gin.H{
		"priority":    "high",
		"description": "bench is broken",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var body issueBody
	decode(t, w, &body)
	return body
}
