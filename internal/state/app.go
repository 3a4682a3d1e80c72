package state

import (
	"log/slog"
	"sync"

	"github.com/socialsphere/socialsphere-app/internal/id"
)

// Subscription receives region-change notifications.
// Changes is closed on Unsubscribe and on hub shutdown.
type Subscription struct {
	ID      string
	Changes chan Region
	regions map[Region]bool // Empty means "all regions"
}

// wants reports whether the subscription covers the given region.
func (s *Subscription) wants(region Region) bool {
	return len(s.regions) == 0 || s.regions[region]
}

// App owns the shared State and the subscriber registry.
type App struct {
	logger *slog.Logger

	mu    sync.RWMutex
	state *State

	subMu    sync.RWMutex
	subs     map[string]*Subscription
	shutdown bool
}

// NewApp creates an App holding the unauthenticated boot state.
func NewApp(logger *slog.Logger) *App {
	return &App{
		logger: logger,
		state:  newState(),
		subs:   make(map[string]*Subscription),
	}
}

// View runs fn with read access to the state. The callback must not
// retain or mutate the state or anything reachable from it.
func (a *App) View(fn func(s *State)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	fn(a.state)
}

// Update runs fn with write access to the state, then notifies
// subscribers of every region fn reports as affected. Notification
// happens after the write lock is released, so renderers reading state
// from their own goroutine don't deadlock.
func (a *App) Update(fn func(s *State) []Region) {
	a.mu.Lock()
	regions := fn(a.state)
	a.mu.Unlock()

	for _, region := range regions {
		a.notify(region)
	}
}

// Subscribe registers a subscriber for the given regions. With no
// regions, every change is delivered.
func (a *App) Subscribe(regions ...Region) (*Subscription, error) {
	subID, err := id.Generate("sub")
	if err != nil {
		return nil, err
	}

	regionSet := make(map[Region]bool, len(regions))
	for _, r := range regions {
		regionSet[r] = true
	}

	sub := &Subscription{
		ID:      subID,
		Changes: make(chan Region, 64), // Buffer changes per subscriber
		regions: regionSet,
	}

	a.subMu.Lock()
	a.subs[sub.ID] = sub
	a.subMu.Unlock()

	return sub, nil
}

// Unsubscribe removes a subscriber and closes its channel.
func (a *App) Unsubscribe(subID string) {
	a.subMu.Lock()
	sub, ok := a.subs[subID]
	if !ok {
		a.subMu.Unlock()
		return
	}
	delete(a.subs, subID)
	a.subMu.Unlock()

	close(sub.Changes)
}

// Shutdown closes all subscriptions. Further Update calls still mutate
// state but notify no one.
func (a *App) Shutdown() {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	if a.shutdown {
		return
	}
	a.shutdown = true

	for _, sub := range a.subs {
		close(sub.Changes)
	}
	a.subs = make(map[string]*Subscription)
}

// notify delivers a region change to every interested subscriber.
func (a *App) notify(region Region) {
	a.subMu.RLock()
	defer a.subMu.RUnlock()

	if a.shutdown {
		return
	}

	for _, sub := range a.subs {
		if !sub.wants(region) {
			continue
		}

		// Non-blocking send (drop if subscriber is slow/stuck).
		select {
		case sub.Changes <- region:
		default:
			if a.logger != nil {
				a.logger.Warn("dropped change notification for slow subscriber",
					slog.String("subscriber_id", sub.ID),
					slog.String("region", string(region)))
			}
		}
	}
}

// SubscriberCount returns the number of registered subscribers.
func (a *App) SubscriberCount() int {
	a.subMu.RLock()
	defer a.subMu.RUnlock()
	return len(a.subs)
}
