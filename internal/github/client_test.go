package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reposcout/internal/domain"
)

const searchBody = `{
  "total_count": 2,
  "incomplete_results": false,
  "items": [
    {"id": 82128465, "name": "architecture-samples", "html_url": "https://github.com/android/architecture-samples", "owner": {"login": "android"}},
    {"id": 5152285, "name": "okhttp", "html_url": "https://github.com/square/okhttp", "owner": {"login": "square"}}
  ]
}`

func TestSearchRepositories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "android", q.Get("q"))
		assert.Equal(t, "stars", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("order"))
		assert.Equal(t, "30", q.Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	repos, err := client.SearchRepositories(context.Background(), "android")
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, domain.Repo{
		ID:         82128465,
		Name:       "architecture-samples",
		URL:        "https://github.com/android/architecture-samples",
		OwnerLogin: "android",
	}, repos[0])
	assert.Equal(t, "square", repos[1].OwnerLogin)
}

func TestUserRepositories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/jake/repos", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "name": "timber", "html_url": "https://github.com/jake/timber", "owner": {"login": "jake"}}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	repos, err := client.UserRepositories(context.Background(), "jake")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "timber", repos[0].Name)
}

func TestServerErrorIsNotConnectivityClass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.SearchRepositories(context.Background(), "android")
	require.Error(t, err)
	assert.False(t, domain.IsConnectivityError(err), "server errors are not connectivity-class")
}

func TestMalformedResponseIsNotConnectivityClass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": not-json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.SearchRepositories(context.Background(), "android")
	require.Error(t, err)
	assert.False(t, domain.IsConnectivityError(err))
}

func TestUnreachableHostIsConnectivityClass(t *testing.T) {
	// Grab a port that nothing listens on.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url)
	_, err := client.SearchRepositories(context.Background(), "android")
	require.Error(t, err)
	assert.True(t, domain.IsConnectivityError(err), "refused connection must classify as connectivity")
}
