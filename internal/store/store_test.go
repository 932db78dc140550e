package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrMEEE/yseal/internal/models"
	"github.com/MrMEEE/yseal/internal/store"
	"github.com/MrMEEE/yseal/internal/testutil"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testutil.NewTestDB(t))
}

func seedUser(t *testing.T, s *store.Store, username string) int64 {
	t.Helper()
	id, err := s.CreateUser(&models.User{
		Username: username,
		Email:    username + "@example.com",
	}, "x")
	require.NoError(t, err)
	return id
}

func seedContributor(t *testing.T, s *store.Store, name string, ownerID int64) int64 {
	t.Helper()
	id, err := s.CreateContributor(&models.Contributor{Name: name, DisplayName: name}, ownerID)
	require.NoError(t, err)
	return id
}

func seedPolicy(t *testing.T, s *store.Store, contributorID int64, name string, tags ...string) int64 {
	t.Helper()
	id, err := s.CreatePolicy(&models.Policy{
		ContributorID: contributorID,
		Name:          name,
		Description:   "test policy " + name,
	}, tags)
	require.NoError(t, err)
	return id
}
