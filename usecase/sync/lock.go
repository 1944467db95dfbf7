package sync

import stdsync "sync"

// teamLocks serializes reconciliation per team. Two concurrent syncs for the
// same team would interleave their delete and upsert steps; syncs for
// different teams share no state and run in parallel.
type teamLocks struct {
	mu    stdsync.Mutex
	locks map[string]*teamLock
}

type teamLock struct {
	mu   stdsync.Mutex
	refs int
}

func newTeamLocks() *teamLocks {
	return &teamLocks{locks: make(map[string]*teamLock)}
}

// Acquire blocks until the team's lock is held and returns the release func.
// Lock entries are reference-counted so the map does not grow without bound.
func (l *teamLocks) Acquire(teamID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[teamID]
	if !ok {
		entry = &teamLock{}
		l.locks[teamID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, teamID)
		}
		l.mu.Unlock()
	}
}
