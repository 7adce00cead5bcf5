package domain

import "strconv"

// Repo represents a repository returned by the remote search index.
type Repo struct {
	ID         int64
	Name       string
	URL        string
	OwnerLogin string
}

// IDString returns the decimal form of the ID, used for filtering and as
// the cache primary key's display form.
func (r Repo) IDString() string {
	return strconv.FormatInt(r.ID, 10)
}

// ConnStatus represents network reachability.
type ConnStatus int

const (
	ConnUnavailable ConnStatus = iota
	ConnAvailable
)

func (s ConnStatus) String() string {
	if s == ConnAvailable {
		return "available"
	}
	return "unavailable"
}
