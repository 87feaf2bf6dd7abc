// Package btreestore implements the ordered store contract on top of an
// in-memory B-tree.
package btreestore

import (
	"github.com/google/btree"

	"github.com/mohammed-shakir/hotcold/internal/store"
)

type entry struct {
	key     store.Key
	payload []byte
}

// Store is a single-tier ordered store. It is not safe for concurrent use;
// callers serialize access (the index core is single-threaded).
type Store struct {
	tree *btree.BTreeG[entry]

	// comparisons performed since creation; deltas around an operation
	// give that operation's traversal cost
	comparisons int64
}

var _ store.Interface = (*Store)(nil)

// New creates an empty store. Degrees below 2 are raised to 2, the minimum
// the underlying tree accepts.
func New(degree int) *Store {
	if degree < 2 {
		degree = 2
	}
	s := &Store{}
	s.tree = btree.NewG(degree, func(a, b entry) bool {
		s.comparisons++
		return a.key < b.key
	})
	return s
}

func (s *Store) Insert(k store.Key, payload []byte) {
	s.tree.ReplaceOrInsert(entry{key: k, payload: payload})
}

func (s *Store) Search(k store.Key) (payload []byte, found bool, cost int64) {
	before := s.comparisons
	e, ok := s.tree.Get(entry{key: k})
	cost = s.comparisons - before
	if !ok {
		return nil, false, cost
	}
	return e.payload, true, cost
}

func (s *Store) RangeSearch(lo, hi store.Key, visit store.VisitFunc) (cost int64) {
	before := s.comparisons
	s.tree.AscendGreaterOrEqual(entry{key: lo}, func(e entry) bool {
		if e.key > hi {
			return false
		}
		visit(e.key, e.payload)
		return true
	})
	return s.comparisons - before
}

func (s *Store) Count() int {
	return s.tree.Len()
}
