package service

import "sync"

// mutationGuard serializes administrator mutations per submission
// identifier. The store itself enforces no mutual exclusion, so a second
// in-flight mutation for the same record must be refused rather than
// raced.
type mutationGuard struct {
	mu       sync.Mutex
	inFlight map[uint]struct{}
}

func newMutationGuard() *mutationGuard {
	return &mutationGuard{inFlight: make(map[uint]struct{})}
}

// acquire reserves the identifier, reporting false when a mutation for
// it is already outstanding.
func (g *mutationGuard) acquire(id uint) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[id]; busy {
		return false
	}
	g.inFlight[id] = struct{}{}
	return true
}

func (g *mutationGuard) release(id uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, id)
}
