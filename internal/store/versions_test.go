package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrMEEE/yseal/internal/models"
	"github.com/MrMEEE/yseal/internal/store"
)

func publish(t *testing.T, s *store.Store, policyID int64, version string, latest bool) int64 {
	t.Helper()
	id, err := s.PublishVersion(&models.PolicyVersion{
		PolicyID:         policyID,
		Version:          version,
		Dependencies:     "[]",
		SupportedSystems: "[]",
		IsLatest:         latest,
	}, nil)
	require.NoError(t, err)
	return id
}

func countLatest(t *testing.T, s *store.Store, policyID int64) int {
	t.Helper()
	versions, err := s.ListVersions(policyID)
	require.NoError(t, err)
	n := 0
	for _, v := range versions {
		if v.IsLatest {
			n++
		}
	}
	return n
}

func TestPublishVersion_LatestUniqueness(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "maintainer")
	cid := seedContributor(t, s, "redhat", uid)
	pid := seedPolicy(t, s, cid, "httpd-custom")

	publish(t, s, pid, "1.0.0", true)
	publish(t, s, pid, "1.1.0", true)

	versions, err := s.ListVersions(pid)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 1, countLatest(t, s, pid))

	latest, err := s.LatestVersion(pid)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", latest.Version)

	// many flagged publishes still leave exactly one latest
	for _, v := range []string{"1.2.0", "1.3.0", "2.0.0"} {
		publish(t, s, pid, v, true)
	}
	assert.Equal(t, 1, countLatest(t, s, pid))
	latest, err = s.LatestVersion(pid)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", latest.Version)
}

func TestPublishVersion_NotLatestLeavesFlagAlone(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "maintainer")
	cid := seedContributor(t, s, "redhat", uid)
	pid := seedPolicy(t, s, cid, "httpd-custom")

	publish(t, s, pid, "1.0.0", true)
	publish(t, s, pid, "0.9.0", false)

	latest, err := s.LatestVersion(pid)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", latest.Version)
	assert.Equal(t, 1, countLatest(t, s, pid))
}

func TestPublishVersion_SameVersionUpdatesInPlace(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "maintainer")
	cid := seedContributor(t, s, "redhat", uid)
	pid := seedPolicy(t, s, cid, "httpd-custom")

	publish(t, s, pid, "1.0.0", true)
	_, err := s.PublishVersion(&models.PolicyVersion{
		PolicyID:         pid,
		Version:          "1.0.0",
		Changelog:        "second publish",
		Dependencies:     "[]",
		SupportedSystems: "[]",
		IsLatest:         true,
	}, nil)
	require.NoError(t, err)

	versions, err := s.ListVersions(pid)
	require.NoError(t, err)
	require.Len(t, versions, 1, "re-publishing must not duplicate")
	assert.Equal(t, "second publish", versions[0].Changelog)
	assert.True(t, versions[0].IsLatest)
}

func TestPublishVersion_Files(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "maintainer")
	cid := seedContributor(t, s, "redhat", uid)
	pid := seedPolicy(t, s, cid, "httpd-custom")

	vid, err := s.PublishVersion(&models.PolicyVersion{
		PolicyID:         pid,
		Version:          "1.0.0",
		Dependencies:     "[]",
		SupportedSystems: "[]",
		IsLatest:         true,
	}, []models.PolicyFile{
		{FilePath: "httpd_custom.te", FileType: models.FileTypeTypeEnforcement, Content: "policy_module(httpd_custom, 1.0)"},
		{FilePath: "httpd_custom.fc", FileType: models.FileTypeFileContexts, Content: "/var/www(/.*)?"},
	})
	require.NoError(t, err)

	files, err := s.VersionFiles(vid)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "httpd_custom.fc", files[0].FilePath)
	assert.Equal(t, models.FileTypeFileContexts, files[0].FileType)
	assert.Equal(t, int64(len("/var/www(/.*)?")), files[0].Size)
}

func TestLatestVersion_FallbackToNewestCreated(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "maintainer")
	cid := seedContributor(t, s, "redhat", uid)
	pid := seedPolicy(t, s, cid, "httpd-custom")

	publish(t, s, pid, "1.0.0", false)
	publish(t, s, pid, "1.1.0", false)

	latest, err := s.LatestVersion(pid)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", latest.Version)
}

func TestLatestVersion_NoVersions(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "maintainer")
	cid := seedContributor(t, s, "redhat", uid)
	pid := seedPolicy(t, s, cid, "httpd-custom")

	_, err := s.LatestVersion(pid)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetVersion_NotFound(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "maintainer")
	cid := seedContributor(t, s, "redhat", uid)
	pid := seedPolicy(t, s, cid, "httpd-custom")

	_, err := s.GetVersion(pid, "9.9.9")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
