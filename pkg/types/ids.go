package types

// IDAllocator hands out unique ids for objects the source does not number,
// such as derived resource calendars. It is read-local: reset at the start of
// a read and synced after each bulk ingestion phase so generated ids never
// collide with ids taken from the source.
type IDAllocator struct {
	last int
}

// Reset starts numbering from 1 again.
func (a *IDAllocator) Reset() {
	a.last = 0
}

// Next returns the next unused id.
func (a *IDAllocator) Next() int {
	a.last++
	return a.last
}

// Sync raises the counter so that Next returns ids greater than every id
// passed in. Ids below the current counter are ignored.
func (a *IDAllocator) Sync(ids ...int) {
	for _, id := range ids {
		if id > a.last {
			a.last = id
		}
	}
}

// Last returns the most recently allocated or synced id.
func (a *IDAllocator) Last() int {
	return a.last
}
