package connectivity

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"reposcout/internal/domain"
	"reposcout/internal/eventbus"
)

// DefaultProbeURL answers 204 without a body, which keeps probes cheap.
const DefaultProbeURL = "https://clients3.google.com/generate_204"

// Monitor produces a live reachability signal by probing a well-known URL on
// an interval. It publishes ConnectivityChangedEvent once with the current
// state when started and afterwards only on transitions.
type Monitor struct {
	bus      eventbus.EventBus
	probeURL string
	interval time.Duration
	client   *http.Client

	mu      sync.RWMutex
	status  domain.ConnStatus
	started bool
}

// NewMonitor creates a monitor publishing to bus. Empty probeURL and zero
// interval fall back to defaults.
func NewMonitor(bus eventbus.EventBus, probeURL string, interval time.Duration) *Monitor {
	if probeURL == "" {
		probeURL = DefaultProbeURL
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Monitor{
		bus:      bus,
		probeURL: probeURL,
		interval: interval,
		client:   &http.Client{Timeout: 5 * time.Second},
		status:   domain.ConnUnavailable,
	}
}

// Current returns the last observed status.
func (m *Monitor) Current() domain.ConnStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Start begins probing until ctx is cancelled. The first probe runs
// synchronously so subscribers get an immediate current-state value.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	status := m.probe(ctx)
	m.setStatus(status, true)

	go m.loop(ctx)
}

func (m *Monitor) loop(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.setStatus(m.probe(ctx), false)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) domain.ConnStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		return domain.ConnUnavailable
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return domain.ConnUnavailable
	}
	resp.Body.Close()
	return domain.ConnAvailable
}

// setStatus records the new status and publishes on change. force publishes
// even without a transition, used for the initial value.
func (m *Monitor) setStatus(status domain.ConnStatus, force bool) {
	m.mu.Lock()
	changed := status != m.status
	m.status = status
	m.mu.Unlock()

	if changed || force {
		log.Printf("connectivity: %s", status)
		m.bus.Publish(eventbus.ConnectivityChangedEvent{Status: status})
	}
}
