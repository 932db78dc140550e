package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/MrMEEE/yseal/internal/api"
	"github.com/MrMEEE/yseal/internal/config"
	"github.com/MrMEEE/yseal/internal/store"
	"github.com/MrMEEE/yseal/internal/testutil"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SigningKey = "test-signing-key"
	return cfg
}

func newServer(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	return newServerWithConfig(t, testConfig())
}

func newServerWithConfig(t *testing.T, cfg config.Config) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := store.New(testutil.NewTestDB(t))
	return api.SetupRouter(s, cfg), s
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// register signs up a user and returns their access token. Registration
// also provisions the user's personal contributor.
func register(t *testing.T, r http.Handler, username string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/register", "", gin.H{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "correct-horse-battery",
		"password2": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["token"].(string)
}

// createPolicy creates a policy under the caller's personal contributor.
func createPolicy(t *testing.T, r http.Handler, token, contributor, name string, tags ...string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/policies", token, gin.H{
		"contributor": contributor,
		"name":        name,
		"description": "test policy " + name,
		"tags":        tags,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
