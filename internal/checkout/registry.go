package checkout

import (
	"sync"
	"time"
)

const (
	// FlowTTL is how long an untouched flow survives before auto-expiring.
	FlowTTL = 30 * time.Minute

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = time.Minute
)

// FlowRegistry keeps in-flight checkout flows in memory, one per shopper.
// Abandoned flows expire in the background; re-entering checkout always
// starts from the step resolver anyway.
type FlowRegistry struct {
	mu    sync.RWMutex
	flows map[string]*Flow // userID -> flow

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewFlowRegistry() *FlowRegistry {
	r := &FlowRegistry{
		flows:       make(map[string]*Flow),
		stopCleanup: make(chan struct{}),
	}

	r.wg.Add(1)
	go r.cleanupLoop()

	return r
}

func (r *FlowRegistry) cleanupLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.expireFlows()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *FlowRegistry) expireFlows() {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-FlowTTL)
	for userID, flow := range r.flows {
		flow.mu.Lock()
		stale := flow.UpdatedAt.Before(cutoff)
		flow.mu.Unlock()
		if stale {
			delete(r.flows, userID)
		}
	}
}

func (r *FlowRegistry) Get(userID string) (*Flow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	flow, ok := r.flows[userID]
	return flow, ok
}

func (r *FlowRegistry) Put(flow *Flow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	flow.mu.Lock()
	flow.UpdatedAt = time.Now()
	flow.mu.Unlock()
	r.flows[flow.UserID] = flow
}

func (r *FlowRegistry) Delete(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, userID)
}

// Close stops the background cleanup goroutine.
func (r *FlowRegistry) Close() {
	close(r.stopCleanup)
	r.wg.Wait()
}
