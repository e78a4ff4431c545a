package service

import (
	"sort"
	"sync"
)

// accountLocks serializes mutating operations per account. Locks are acquired
// in lexicographic account-id order so that a transfer touching two accounts
// can never deadlock against another transfer taking them in the opposite
// order.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *accountLocks) lockFor(accountID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk, ok := l.locks[accountID]
	if !ok {
		lk = &sync.Mutex{}
		l.locks[accountID] = lk
	}
	return lk
}

// acquire locks the given accounts in a fixed global order and returns the
// matching unlock function. Duplicate ids are locked once.
func (l *accountLocks) acquire(accountIDs ...string) func() {
	ids := make([]string, 0, len(accountIDs))
	seen := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)

	held := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		lk := l.lockFor(id)
		lk.Lock()
		held = append(held, lk)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
