package orchestrator

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"reposcout/internal/domain"
	"reposcout/internal/eventbus"
)

// User-facing messages for the two error kinds and the offline banner.
const (
	MsgConnectivityError = "No connection. Your last search will retry when you're back online."
	MsgUnknownError      = "Something went wrong. Please try again."
	MsgOffline           = "Offline — showing cached results"
)

// DefaultDebounce is the quiet period applied to remote query changes.
const DefaultDebounce = 500 * time.Millisecond

// SearchClient performs a single request/response exchange against the
// remote search endpoint. Connectivity-class failures must satisfy
// domain.IsConnectivityError.
type SearchClient interface {
	SearchRepositories(ctx context.Context, query string) ([]domain.Repo, error)
}

// CacheStore persists the most recent result set. ReplaceAll must be atomic:
// no reader may observe an empty-then-partial state. Live reads arrive as
// ResultsCachedEvent on the bus.
type CacheStore interface {
	ReplaceAll(ctx context.Context, repos []domain.Repo) error
	All(ctx context.Context) ([]domain.Repo, error)
}

// Options tune the orchestrator. The zero value uses defaults.
type Options struct {
	Debounce time.Duration
}

// Orchestrator owns the UI-facing state and coordinates debouncing, fetch
// cancellation, caching, local filtering, and offline replay. All state
// mutations funnel through a single mutex-guarded commit, each a pure
// transform of the prior snapshot.
type Orchestrator struct {
	client   SearchClient
	store    CacheStore
	bus      eventbus.EventBus
	debounce time.Duration

	mu             sync.Mutex
	applyMu        sync.Mutex // serializes fetch outcome application
	state          State
	gen            uint64             // generation of the most recent fetch
	cancelFetch    context.CancelFunc // cancels the in-flight fetch, if any
	lastOffline    string             // query to replay when back online
	lastPropagated string             // last value past debounce, for dedup

	queryCh chan string
	subs    []chan State
	unsubs  []func()
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// New creates an orchestrator over the three collaborators. Call Start to
// begin processing and Close to shut down.
func New(client SearchClient, store CacheStore, bus eventbus.EventBus, opts Options) *Orchestrator {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Orchestrator{
		client:   client,
		store:    store,
		bus:      bus,
		debounce: debounce,
		state:    State{NetworkAvailable: true},
		queryCh:  make(chan string, 64),
		done:     make(chan struct{}),
	}
}

// Start loads the cached result set, subscribes to cache and connectivity
// events, and starts the debounced search pipeline.
func (o *Orchestrator) Start(ctx context.Context) error {
	repos, err := o.store.All(ctx)
	if err != nil {
		return err
	}
	o.commit(func(s *State) { s.AllResults = repos })

	o.unsubs = append(o.unsubs,
		o.bus.Subscribe(eventbus.EventResultsCached, o.onResultsCached),
		o.bus.Subscribe(eventbus.EventConnectivityChanged, o.onConnectivityChanged),
	)

	o.wg.Add(1)
	go o.searchLoop()
	return nil
}

// Close stops the pipelines and cancels any in-flight fetch.
func (o *Orchestrator) Close() {
	o.once.Do(func() { close(o.done) })
	for _, unsub := range o.unsubs {
		unsub()
	}
	o.mu.Lock()
	if o.cancelFetch != nil {
		o.cancelFetch()
	}
	o.mu.Unlock()
	o.wg.Wait()
}

// SetRemoteQuery updates the remote query, resets the local filter, and
// clears any pending offline replay. The network pipeline picks the value up
// after the debounce quiet period.
func (o *Orchestrator) SetRemoteQuery(text string) {
	o.mu.Lock()
	o.lastOffline = ""
	o.mu.Unlock()

	o.commit(func(s *State) {
		s.RemoteQuery = text
		s.LocalFilter = ""
	})

	select {
	case o.queryCh <- text:
	case <-o.done:
	}
}

// SetLocalFilter updates the cache-only filter. No network activity results.
func (o *Orchestrator) SetLocalFilter(text string) {
	o.commit(func(s *State) { s.LocalFilter = text })
}

// DismissError clears the one-shot error message.
func (o *Orchestrator) DismissError() {
	o.commit(func(s *State) { s.ErrorMessage = "" })
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Updates returns a channel of state snapshots. The channel conflates: a slow
// consumer only ever misses intermediate snapshots, never the latest one.
func (o *Orchestrator) Updates() <-chan State {
	ch := make(chan State, 1)
	o.mu.Lock()
	o.subs = append(o.subs, ch)
	o.mu.Unlock()
	return ch
}

// commit applies a pure transform to the current snapshot, re-derives
// FilteredResults, and publishes the result. Callers must not hold o.mu.
func (o *Orchestrator) commit(transform func(*State)) {
	o.mu.Lock()
	next := o.state
	transform(&next)
	next.FilteredResults = filterRepos(next.AllResults, next.LocalFilter)
	o.state = next
	subs := o.subs
	o.mu.Unlock()

	for _, ch := range subs {
		// Latest-wins delivery: displace a stale undelivered snapshot.
		for {
			select {
			case ch <- next:
			default:
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

// searchLoop is the network search pipeline: debounce, dedup, blank filter,
// then a generation-tagged fetch. It runs until Close.
func (o *Orchestrator) searchLoop() {
	defer o.wg.Done()

	var (
		pending string
		timer   *time.Timer
		fire    <-chan time.Time
	)
	for {
		select {
		case q := <-o.queryCh:
			pending = q
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(o.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			o.propagate(pending)

		case <-o.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// propagate applies the dedup and blank-filter stages, then starts a fetch.
// Dedup compares against the previous propagated value, blank or not, so a
// blank in between allows the same query to fetch again.
func (o *Orchestrator) propagate(query string) {
	o.mu.Lock()
	if query == o.lastPropagated {
		o.mu.Unlock()
		return
	}
	o.lastPropagated = query
	o.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		return
	}
	o.startFetch(query)
}

// startFetch supersedes any in-flight fetch and launches a new one. The
// generation counter guarantees at most one fetch's outcome is ever applied
// per query transition; a superseded completion is discarded silently.
// The bump happens under applyMu so it cannot interleave with an outcome
// mid-application: an old fetch that already passed its generation check
// finishes applying before the supersession lands.
func (o *Orchestrator) startFetch(query string) {
	ctx, cancel := context.WithCancel(context.Background())

	o.applyMu.Lock()
	o.mu.Lock()
	o.gen++
	gen := o.gen
	prevCancel := o.cancelFetch
	o.cancelFetch = cancel
	o.mu.Unlock()

	o.commit(func(s *State) {
		s.Loading = true
		s.ErrorMessage = ""
	})
	o.bus.Publish(eventbus.SearchStartedEvent{Query: query})

	if prevCancel != nil {
		prevCancel()
	}
	o.applyMu.Unlock()

	o.wg.Add(1)
	go o.fetch(ctx, gen, query)
}

func (o *Orchestrator) fetch(ctx context.Context, gen uint64, query string) {
	defer o.wg.Done()

	repos, err := o.client.SearchRepositories(ctx, query)

	// Outcome application is serialized and generation-checked: a fetch
	// superseded while in flight is discarded without touching the cache
	// or state.
	o.applyMu.Lock()
	defer o.applyMu.Unlock()
	if !o.current(gen) {
		return
	}

	if err != nil {
		o.applyFailure(gen, query, err)
		return
	}

	if err := o.store.ReplaceAll(context.Background(), repos); err != nil {
		log.Printf("orchestrator: cache write for %q failed: %v", query, err)
		o.bus.Publish(eventbus.ErrorEvent{Message: "cache write failed", Err: err})
		o.applyFailure(gen, query, err)
		return
	}

	o.commitIf(gen, func(s *State) { s.Loading = false })
	o.bus.Publish(eventbus.SearchSucceededEvent{Query: query, Count: len(repos)})
}

// applyFailure converts a fetch error into a state update. A connectivity
// failure additionally records the query for replay. Failures never stop the
// pipeline.
func (o *Orchestrator) applyFailure(gen uint64, query string, err error) {
	connectivity := domain.IsConnectivityError(err)
	log.Printf("orchestrator: search %q failed (connectivity=%v): %v", query, connectivity, err)

	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		return
	}
	if connectivity {
		o.lastOffline = query
	}
	o.mu.Unlock()

	o.commitIf(gen, func(s *State) {
		s.Loading = false
		if connectivity {
			s.ErrorMessage = MsgConnectivityError
		} else {
			s.ErrorMessage = MsgUnknownError
		}
	})
	o.bus.Publish(eventbus.SearchFailedEvent{Query: query, Connectivity: connectivity, Err: err})
}

// current reports whether gen is still the most recent fetch generation.
func (o *Orchestrator) current(gen uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return gen == o.gen
}

// commitIf commits only while gen is still current, keeping superseded
// fetches from touching state.
func (o *Orchestrator) commitIf(gen uint64, transform func(*State)) {
	o.mu.Lock()
	stale := gen != o.gen
	o.mu.Unlock()
	if stale {
		return
	}
	o.commit(transform)
}

// onResultsCached is the cache's live read feeding back into published state.
func (o *Orchestrator) onResultsCached(e eventbus.DomainEvent) {
	event, ok := e.(eventbus.ResultsCachedEvent)
	if !ok {
		return
	}
	o.commit(func(s *State) { s.AllResults = event.Repos })
}

// onConnectivityChanged updates the network fields and, on a transition into
// available with a recorded offline query, replays that query exactly once.
// The replay bypasses debounce and dedup: the replayed string equals the last
// propagated value by construction.
func (o *Orchestrator) onConnectivityChanged(e eventbus.DomainEvent) {
	event, ok := e.(eventbus.ConnectivityChangedEvent)
	if !ok {
		return
	}
	available := event.Status == domain.ConnAvailable

	o.mu.Lock()
	wasAvailable := o.state.NetworkAvailable
	replay := ""
	if available && !wasAvailable && o.lastOffline != "" {
		replay = o.lastOffline
		o.lastOffline = ""
	}
	o.mu.Unlock()

	o.commit(func(s *State) {
		s.NetworkAvailable = available
		if available {
			s.NetworkStatusMessage = ""
		} else {
			s.NetworkStatusMessage = MsgOffline
		}
	})

	if replay != "" {
		o.commit(func(s *State) { s.RemoteQuery = replay })
		o.startFetch(replay)
	}
}
