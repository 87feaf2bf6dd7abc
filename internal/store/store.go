// Package store defines the ordered key/value store contract the tiered
// index is built on.
package store

// Key is a point in the dense integer keyspace.
type Key = int64

// VisitFunc receives one key/payload pair per stored key in a range scan,
// in ascending key order.
type VisitFunc func(k Key, payload []byte)

// Interface is one tier's ordered store. Every read reports its traversal
// cost so the index can account lookup expense per tier.
type Interface interface {
	// Insert upserts the payload for k.
	Insert(k Key, payload []byte)

	// Search returns the payload for k. found distinguishes a stored
	// empty payload from an absent key. cost is the traversal cost of
	// this search.
	Search(k Key) (payload []byte, found bool, cost int64)

	// RangeSearch invokes visit once per stored key in [lo, hi],
	// ascending, and returns the traversal cost of the scan.
	RangeSearch(lo, hi Key, visit VisitFunc) (cost int64)

	// Count returns the number of stored keys.
	Count() int
}
