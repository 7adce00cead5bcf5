package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reposcout/internal/domain"
)

func TestFilterReposBlankIsIdentity(t *testing.T) {
	all := []domain.Repo{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}

	assert.Equal(t, all, filterRepos(all, ""))
	assert.Equal(t, all, filterRepos(all, "   "))
}

func TestFilterReposMatchesFields(t *testing.T) {
	all := []domain.Repo{
		{ID: 1234, Name: "Retrofit", OwnerLogin: "square"},
		{ID: 5678, Name: "coil", OwnerLogin: "Coil-kt"},
	}

	byName := filterRepos(all, "retro")
	assert.Len(t, byName, 1)
	assert.Equal(t, "Retrofit", byName[0].Name)

	byOwner := filterRepos(all, "SQUARE")
	assert.Len(t, byOwner, 1)
	assert.Equal(t, "square", byOwner[0].OwnerLogin)

	byID := filterRepos(all, "567")
	assert.Len(t, byID, 1)
	assert.Equal(t, int64(5678), byID[0].ID)

	// A substring hitting two fields of the same repo must not duplicate it.
	byBoth := filterRepos(all, "coil")
	assert.Len(t, byBoth, 1)

	assert.Empty(t, filterRepos(all, "nothing"))
}

func TestFilterReposEmptyInput(t *testing.T) {
	assert.Empty(t, filterRepos(nil, "x"))
	assert.Nil(t, filterRepos(nil, ""))
}
