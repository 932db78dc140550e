package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPolicy_NotFoundMessage(t *testing.T) {
	r, _ := newServer(t)

	w := doJSON(t, r, http.MethodGet, "/policies/redhat/missing", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Policy redhat/missing not found", decode(t, w)["detail"])
}

func TestCreateAndGetPolicy(t *testing.T) {
	r, _ := newServer(t)
	token := register(t, r, "alice")

	createPolicy(t, r, token, "alice", "httpd-custom", "web-server", "security")

	w := doJSON(t, r, http.MethodGet, "/policies/alice/httpd-custom", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "httpd-custom", body["name"])
	assert.ElementsMatch(t, []interface{}{"web-server", "security"}, body["tags"])
	assert.EqualValues(t, 0, body["download_count"])
	assert.Nil(t, body["average_rating"])
	contrib := body["contributor"].(map[string]interface{})
	assert.Equal(t, "alice", contrib["name"])
}

func TestCreatePolicy_RequiresOwnership(t *testing.T) {
	r, _ := newServer(t)
	register(t, r, "alice")
	mallory := register(t, r, "mallory")

	w := doJSON(t, r, http.MethodPost, "/policies", mallory, gin.H{
		"contributor": "alice",
		"name":        "sneaky",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreatePolicy_DuplicateConflicts(t *testing.T) {
	r, _ := newServer(t)
	token := register(t, r, "alice")
	createPolicy(t, r, token, "alice", "httpd-custom")

	w := doJSON(t, r, http.MethodPost, "/policies", token, gin.H{
		"contributor": "alice",
		"name":        "httpd-custom",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVersionLifecycle(t *testing.T) {
	r, _ := newServer(t)
	token := register(t, r, "alice")
	createPolicy(t, r, token, "alice", "httpd-custom")

	w := doJSON(t, r, http.MethodPost, "/policies/alice/httpd-custom/versions", token, gin.H{
		"version":   "1.0.0",
		"changelog": "initial release",
		"is_latest": true,
		"files": []gin.H{
			{"file_path": "httpd_custom.te", "file_type": "te", "content": "policy_module(httpd_custom, 1.0)"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/policies/alice/httpd-custom/versions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	meta := body["meta"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["count"])

	w = doJSON(t, r, http.MethodGet, "/policies/alice/httpd-custom/versions/1.0.0", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	version := decode(t, w)
	assert.Equal(t, "1.0.0", version["version"])

	// missing versions get their own message, distinct from missing policies
	w = doJSON(t, r, http.MethodGet, "/policies/alice/httpd-custom/versions/9.9.9", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Version 9.9.9 not found for alice/httpd-custom", decode(t, w)["detail"])
}

func TestPublishVersion_RejectsInvalidSemver(t *testing.T) {
	r, _ := newServer(t)
	token := register(t, r, "alice")
	createPolicy(t, r, token, "alice", "httpd-custom")

	w := doJSON(t, r, http.MethodPost, "/policies/alice/httpd-custom/versions", token, gin.H{
		"version": "not.a.version",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid semver", decode(t, w)["error"])
}

func TestDownload_CountsInPolicyDetail(t *testing.T) {
	r, _ := newServer(t)
	token := register(t, r, "alice")
	createPolicy(t, r, token, "alice", "httpd-custom")
	w := doJSON(t, r, http.MethodPost, "/policies/alice/httpd-custom/versions", token, gin.H{
		"version": "1.0.0", "is_latest": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for i := 0; i < 2; i++ {
		w = doJSON(t, r, http.MethodGet, "/policies/alice/httpd-custom/versions/1.0.0/download", "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/policies/alice/httpd-custom", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["download_count"])
}

func TestDeleteContributor_BlockedResponse(t *testing.T) {
	r, _ := newServer(t)
	token := register(t, r, "alice")
	createPolicy(t, r, token, "alice", "httpd-custom")
	createPolicy(t, r, token, "alice", "nginx-custom")

	w := doJSON(t, r, http.MethodDelete, "/contributors/alice", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cannot delete contributor 'alice'. It has 2 associated policies.", decode(t, w)["detail"])
}

func TestDeleteContributor_Empty(t *testing.T) {
	r, _ := newServer(t)
	token := register(t, r, "alice")
	w := doJSON(t, r, http.MethodPost, "/contributors", token, gin.H{"name": "side-project"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/contributors/side-project", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/contributors/side-project", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearch_EndToEnd(t *testing.T) {
	r, _ := newServer(t)
	token := register(t, r, "alice")
	createPolicy(t, r, token, "alice", "nginx-hardened", "web-server", "security")
	createPolicy(t, r, token, "alice", "nginx-basic", "web-server")
	createPolicy(t, r, token, "alice", "postgres-lockdown", "database", "security")

	w := doJSON(t, r, http.MethodGet, "/search?keywords=nginx&tags=web-server,security", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.EqualValues(t, 1, body["count"])
	results := body["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "nginx-hardened", results[0].(map[string]interface{})["name"])
}

func TestSearch_BadOrderByRejected(t *testing.T) {
	r, _ := newServer(t)

	w := doJSON(t, r, http.MethodGet, "/search?order_by=sqlite_master", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPolicies_PaginationEnvelope(t *testing.T) {
	r, _ := newServer(t)
	token := register(t, r, "alice")
	for _, name := range []string{"p-one", "p-two", "p-three"} {
		createPolicy(t, r, token, "alice", name)
	}

	w := doJSON(t, r, http.MethodGet, "/policies?limit=2&page=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.EqualValues(t, 3, body["count"])
	assert.Len(t, body["results"].([]interface{}), 2)
	require.NotNil(t, body["next"])
	assert.Contains(t, body["next"].(string), "page=2")
	assert.Nil(t, body["previous"])

	w = doJSON(t, r, http.MethodGet, "/policies?limit=2&page=2", "", nil)
	body = decode(t, w)
	assert.Len(t, body["results"].([]interface{}), 1)
	assert.Nil(t, body["next"])
	require.NotNil(t, body["previous"])
	assert.Contains(t, body["previous"].(string), "page=1")
}
