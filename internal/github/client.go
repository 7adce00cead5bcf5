package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"reposcout/internal/domain"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

const perPage = 30

// Client performs request/response exchanges against the remote search
// endpoint. Transport-level failures are classified as connectivity-class
// (wrapped domain.ErrConnectivity); protocol and server failures are not.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the given base URL. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type repoJSON struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
	Owner   struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (r repoJSON) toDomain() domain.Repo {
	return domain.Repo{
		ID:         r.ID,
		Name:       r.Name,
		URL:        r.HTMLURL,
		OwnerLogin: r.Owner.Login,
	}
}

type searchResponse struct {
	TotalCount        int        `json:"total_count"`
	IncompleteResults bool       `json:"incomplete_results"`
	Items             []repoJSON `json:"items"`
}

// SearchRepositories runs a single repository search, sorted by stars
// descending, one page of results.
func (c *Client) SearchRepositories(ctx context.Context, query string) ([]domain.Repo, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", "stars")
	q.Set("order", "desc")
	q.Set("per_page", fmt.Sprintf("%d", perPage))

	body, err := c.get(ctx, "/search/repositories?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	repos := make([]domain.Repo, 0, len(resp.Items))
	for _, item := range resp.Items {
		repos = append(repos, item.toDomain())
	}
	return repos, nil
}

// UserRepositories lists the repositories of a single user.
func (c *Client) UserRepositories(ctx context.Context, username string) ([]domain.Repo, error) {
	body, err := c.get(ctx, "/users/"+url.PathEscape(username)+"/repos")
	if err != nil {
		return nil, err
	}

	var items []repoJSON
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decoding user repos response: %w", err)
	}

	repos := make([]domain.Repo, 0, len(items))
	for _, item := range items {
		repos = append(repos, item.toDomain())
	}
	return repos, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors (no route, timeout, DNS) never reached the
		// server; the distinction drives offline replay upstream.
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
