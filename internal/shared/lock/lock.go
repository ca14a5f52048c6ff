// Package lock serializes read-modify-write sequences on a player's state.
//
// Every operation that reads then writes a player's counters, buildings or
// troops holds that player's lock for the whole sequence. Operations touching
// two players (battles) acquire both keys in ascending order so two mutual
// attacks cannot deadlock. Acquisition is bounded: on timeout the caller gets
// a retryable busy error instead of waiting forever.
package lock

import (
	"context"
	"slices"
)

// Release gives back every key taken by one Acquire call.
type Release func()

type Locker interface {
	Acquire(ctx context.Context, playerIDs ...string) (Release, error)
}

// orderedKeys dedupes and sorts ids into the global acquisition order.
func orderedKeys(playerIDs []string) []string {
	keys := slices.Clone(playerIDs)
	slices.Sort(keys)
	return slices.Compact(keys)
}
