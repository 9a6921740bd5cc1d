package services

import (
	"fmt"
	"sync"
)

// Locks serializes operations per entity key so two commands mutating the
// same character, crew, or ship never interleave read-modify-write cycles.
// Every service draws from one shared table; a character's purse stays
// serialized no matter which command touches it. Locks are never freed; the
// key space is bounded by active players.
type Locks struct {
	locks sync.Map // key -> *sync.Mutex
}

func NewLocks() *Locks {
	return &Locks{}
}

func (k *Locks) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Lock ordering is character, then crew, then ship; duels take both
// character locks in ascending id order.
func characterLockKey(id int64) string { return fmt.Sprintf("character:%d", id) }
func crewLockKey(id string) string     { return "crew:" + id }
func shipLockKey(crewID string) string { return "ship:" + crewID }
