package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventResultsCached       EventType = "ResultsCached"
	EventConnectivityChanged EventType = "ConnectivityChanged"
	EventSearchStarted       EventType = "SearchStarted"
	EventSearchSucceeded     EventType = "SearchSucceeded"
	EventSearchFailed        EventType = "SearchFailed"
	EventError               EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ResultsCachedEvent is emitted after the cache store replaces its contents.
// Repos carries the full post-replace snapshot in stable order.
type ResultsCachedEvent struct {
	Repos []Repo
}

func (e ResultsCachedEvent) Type() EventType { return EventResultsCached }

// ConnectivityChangedEvent is emitted when network reachability transitions,
// and once with the current state when monitoring starts.
type ConnectivityChangedEvent struct {
	Status ConnStatus
}

func (e ConnectivityChangedEvent) Type() EventType { return EventConnectivityChanged }

// SearchStartedEvent is emitted when a remote fetch begins.
type SearchStartedEvent struct {
	Query string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchSucceededEvent is emitted when a remote fetch completes and its
// results have been applied.
type SearchSucceededEvent struct {
	Query string
	Count int
}

func (e SearchSucceededEvent) Type() EventType { return EventSearchSucceeded }

// SearchFailedEvent is emitted when a remote fetch fails.
type SearchFailedEvent struct {
	Query        string
	Connectivity bool
	Err          error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// ErrorEvent is emitted when an error occurs outside the search path.
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
