package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrMEEE/yseal/internal/models"
	"github.com/MrMEEE/yseal/internal/store"
)

func TestCreatePolicy_NaturalKeyConflict(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "owner")
	cid := seedContributor(t, s, "redhat", uid)

	seedPolicy(t, s, cid, "httpd-custom")
	_, err := s.CreatePolicy(&models.Policy{ContributorID: cid, Name: "httpd-custom"}, nil)
	assert.ErrorIs(t, err, store.ErrConflict)

	// the same name under another contributor is fine
	cid2 := seedContributor(t, s, "fedora", uid)
	_, err = s.CreatePolicy(&models.Policy{ContributorID: cid2, Name: "httpd-custom"}, nil)
	assert.NoError(t, err)
}

func TestGetPolicy_FullName(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "owner")
	cid := seedContributor(t, s, "redhat", uid)
	seedPolicy(t, s, cid, "httpd-custom")

	p, err := s.GetPolicy("redhat", "httpd-custom")
	require.NoError(t, err)
	assert.Equal(t, "redhat.httpd-custom", p.FullName())

	_, err = s.GetPolicy("redhat", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreatePolicy_TagsNormalized(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "owner")
	cid := seedContributor(t, s, "redhat", uid)
	pid := seedPolicy(t, s, cid, "httpd-custom", "Web-Server", " security ", "web-server")

	tags, err := s.TagNames(pid)
	require.NoError(t, err)
	assert.Equal(t, []string{"security", "web-server"}, tags)
}

func TestDeleteContributor_BlockedByPolicies(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "owner")
	cid := seedContributor(t, s, "redhat", uid)
	seedPolicy(t, s, cid, "httpd-custom")
	seedPolicy(t, s, cid, "nginx-custom")

	err := s.DeleteContributor("redhat")
	var hasPolicies *store.ErrContributorHasPolicies
	require.ErrorAs(t, err, &hasPolicies)
	assert.Equal(t, int64(2), hasPolicies.Count)
	assert.Contains(t, hasPolicies.Error(), "2 associated policies")

	// still there
	_, err = s.GetContributorByName("redhat")
	assert.NoError(t, err)
}

func TestDeleteContributor_EmptySucceeds(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "owner")
	seedContributor(t, s, "empty-org", uid)

	require.NoError(t, s.DeleteContributor("empty-org"))
	_, err := s.GetContributorByName("empty-org")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDownloadCount_DerivedFromLog(t *testing.T) {
	s := newStore(t)
	uid := seedUser(t, s, "owner")
	cid := seedContributor(t, s, "redhat", uid)
	pid := seedPolicy(t, s, cid, "httpd-custom")
	vid, err := s.PublishVersion(&models.PolicyVersion{
		PolicyID: pid, Version: "1.0.0", Dependencies: "[]", SupportedSystems: "[]", IsLatest: true,
	}, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.LogDownload(pid, vid, "10.0.0.1", "yseal-cli/1.0"))
	}
	n, err := s.DownloadCount(pid)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
