// Package skiplist implements a concurrent, lock-free, in-memory ordered
// map keyed by signed 64-bit integers, following the Fomitchev/Ruppert
// skip list design (PODC '04): a per-node successor word packing a
// pointer with a mark and a flag bit, back-links, and a helping protocol
// that lets any thread finish a deletion it happens to run into.
package skiplist

import "sync/atomic"

const (
	defaultMaxLevel        = 32
	defaultCoinProbability = 0.5
)

// RetireFunc is called exactly once per node after it has been physically
// unlinked from the structure. The default is a no-op: the module does not
// implement memory reclamation (see DESIGN.md); this is the seam a host
// process can use to hook one in.
type RetireFunc func(*Node)

// Stats is a point-in-time snapshot of the counters described in
// SPEC_FULL.md §5.2.
type Stats struct {
	Len             int64
	InsertRetries   int64
	InsertSuccesses int64
	HelpOperations  int64
}

type config struct {
	maxLevel int
	coinP    float64
	retire   RetireFunc
}

// Option configures a SkipList at construction time.
type Option func(*config)

// WithMaxLevel overrides the default maximum tower height (32).
func WithMaxLevel(n int) Option {
	return func(c *config) { c.maxLevel = n }
}

// WithCoinProbability overrides the default per-level coin probability
// (0.5) used to draw tower heights.
func WithCoinProbability(p float64) Option {
	return func(c *config) { c.coinP = p }
}

// WithRetireFunc installs a hook invoked once a node is fully unlinked and
// safe to free, given an external reclamation scheme to defer to.
func WithRetireFunc(f RetireFunc) Option {
	return func(c *config) { c.retire = f }
}

// SkipList is a concurrent ordered map from int64 keys to int64 elements.
// The zero value is not usable; construct one with New.
type SkipList struct {
	maxLevel int
	heads    []*Node
	tails    []*Node
	topLevel atomic.Int64

	height     *heightSource
	metrics    *metrics
	retireFunc RetireFunc
	length     atomic.Int64
}

// New constructs an empty SkipList.
func New(opts ...Option) *SkipList {
	cfg := config{maxLevel: defaultMaxLevel, coinP: defaultCoinProbability}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxLevel < 1 {
		cfg.maxLevel = 1
	}

	heads, tails := buildSentinelColumns(cfg.maxLevel)
	s := &SkipList{
		maxLevel:   cfg.maxLevel,
		heads:      heads,
		tails:      tails,
		height:     newHeightSource(cfg.coinP),
		metrics:    newMetrics(),
		retireFunc: cfg.retire,
	}
	s.topLevel.Store(1)
	return s
}

// retire marks n as safe to free and invokes the configured RetireFunc, if
// any, exactly once.
func (s *SkipList) retire(n *Node) {
	if n == nil {
		return
	}
	if !n.retireOnce.CompareAndSwap(false, true) {
		return
	}
	if s.retireFunc != nil {
		s.retireFunc(n)
	}
}

// bumpTopLevel raises the "highest level ever populated" counter findStart
// relies on (see navigate.go) to at least h, via a standard CAS retry loop.
func (s *SkipList) bumpTopLevel(h int) {
	for {
		cur := s.topLevel.Load()
		if int64(h) <= cur {
			return
		}
		if s.topLevel.CompareAndSwap(cur, int64(h)) {
			return
		}
	}
}

// Insert adds key with the given element if key is not already present.
// It returns false without modifying the map if key is already present.
//
// Insert panics with ErrReservedKey if key is MinKey or MaxKey.
func (s *SkipList) Insert(key, element int64) bool {
	checkKey(key)

	prev, next := s.searchToLevel(key, 1)
	if prev.key == key {
		return false
	}

	root := newRootNode(key, element)
	newNode := root
	height := s.height.draw(s.maxLevel)
	s.bumpTopLevel(height)

	currV := 1
	for {
		var result *Node
		prev, result = s.insertNode(newNode, prev, next)

		if result == nil {
			if currV == 1 {
				return false
			}
		} else if currV == 1 {
			s.length.Add(1)
		}

		if root.successor.Marked() {
			if result == newNode && newNode != root {
				s.deleteNode(prev, newNode)
			}
			return true
		}

		currV++
		if currV == height+1 {
			return true
		}

		newNode = newUpperNode(key, newNode, root)
		prev, next = s.searchToLevel(key, currV)
	}
}

// Find returns the element stored under key, and whether key is present.
func (s *SkipList) Find(key int64) (int64, bool) {
	curr, _ := s.searchToLevel(key, 1)
	if curr.key == key && !curr.successor.Marked() {
		return curr.element, true
	}
	return 0, false
}

// Remove deletes key from the map if present, returning the element that
// was stored under it and true, or (0, false) if key was absent.
func (s *SkipList) Remove(key int64) (int64, bool) {
	prev, del := s.searchToLevel(key-1, 1)
	if del.key != key {
		return 0, false
	}

	r := s.deleteNode(prev, del)
	if r == nil {
		return 0, false
	}
	s.length.Add(-1)

	// Climb one level to drive helping of the now-orphaned upper-level
	// nodes of del's tower; see §4.4.6.
	s.searchToLevel(key, 2)

	return del.element, true
}

// deleteNode flags del for deletion from prev and drives it to completion.
// It returns del if this call is the one that performed the deletion, or
// nil if del had already been (or is concurrently being) deleted by
// someone else.
func (s *SkipList) deleteNode(prev, del *Node) *Node {
	prevUpdated, status, first := s.tryFlag(prev, del)
	if status {
		s.helpFlagged(prevUpdated, del)
	}
	if !first {
		return nil
	}
	return del
}

// Stats returns a snapshot of the map's length and internal CAS counters.
func (s *SkipList) Stats() Stats {
	retries, successes, helps := s.metrics.snapshot()
	return Stats{
		Len:             s.length.Load(),
		InsertRetries:   retries,
		InsertSuccesses: successes,
		HelpOperations:  helps,
	}
}
