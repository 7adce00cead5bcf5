package orchestrator

import (
	"strings"

	"reposcout/internal/domain"
)

// State is the single published snapshot consumed by the presentation layer.
// FilteredResults is always derived from (AllResults, LocalFilter) at commit
// time and never mutated independently.
type State struct {
	RemoteQuery     string
	LocalFilter     string
	AllResults      []domain.Repo
	FilteredResults []domain.Repo
	Loading         bool
	ErrorMessage    string

	NetworkAvailable     bool
	NetworkStatusMessage string
}

// filterRepos returns the subsequence of repos whose name, owner login, or
// decimal id contains filter case-insensitively. A blank filter returns the
// input slice unchanged.
func filterRepos(repos []domain.Repo, filter string) []domain.Repo {
	if strings.TrimSpace(filter) == "" {
		return repos
	}
	q := strings.ToLower(filter)
	var out []domain.Repo
	for _, r := range repos {
		if strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.OwnerLogin), q) ||
			strings.Contains(r.IDString(), q) {
			out = append(out, r)
		}
	}
	return out
}
