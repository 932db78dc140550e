package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrMEEE/yseal/internal/models"
	"github.com/MrMEEE/yseal/internal/store"
)

func TestCreateUser_ProvisionsPersonalContributor(t *testing.T) {
	s := newStore(t)

	id, err := s.CreateUser(&models.User{
		Username:  "alice_b",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Baker",
	}, "hash")
	require.NoError(t, err)

	c, err := s.GetContributorByName("alice-b")
	require.NoError(t, err)
	assert.True(t, c.IsPersonal)
	assert.Equal(t, "Alice Baker", c.DisplayName)

	owners, err := s.OwnerNames(c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice_b"}, owners)

	// profile is created alongside the user
	p, err := s.GetProfile(id)
	require.NoError(t, err)
	assert.NotEmpty(t, p.EmailVerificationToken)
	assert.False(t, p.EmailVerified)
}

func TestCreateUser_SlugCollisionSkipsProvisioning(t *testing.T) {
	s := newStore(t)

	seedUser(t, s, "alice_b")

	// "alice-b" derives the same slug as "alice_b"
	id2, err := s.CreateUser(&models.User{
		Username: "alice-b",
		Email:    "alice2@example.com",
	}, "hash")
	require.NoError(t, err)

	c, err := s.GetContributorByName("alice-b")
	require.NoError(t, err)
	owners, err := s.OwnerNames(c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice_b"}, owners, "existing ownership must not change")

	owned, err := s.OwnedContributors(id2)
	require.NoError(t, err)
	assert.Empty(t, owned, "colliding user gets no personal contributor")
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newStore(t)
	seedUser(t, s, "alice")

	_, err := s.CreateUser(&models.User{Username: "alice", Email: "other@example.com"}, "hash")
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = s.CreateUser(&models.User{Username: "bob", Email: "alice@example.com"}, "hash")
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestPersonalSlug(t *testing.T) {
	assert.Equal(t, "alice-b", store.PersonalSlug("Alice_B"))
	assert.Equal(t, "redhat", store.PersonalSlug("redhat"))
}
