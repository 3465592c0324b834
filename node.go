package skiplist

import (
	"math"
	"sync/atomic"
)

// MinKey and MaxKey are reserved sentinel keys. User keys must satisfy
// MinKey < key < MaxKey; Insert panics (see ErrReservedKey) if a caller
// tries to use either value as a real key.
const (
	MinKey int64 = math.MinInt64
	MaxKey int64 = math.MaxInt64
)

// Node is a single tower cell. A root node (level 1 of a user tower) owns
// the key's element; upper-level nodes carry only the key and point down to
// the node immediately below them and across to the tower's root. Sentinel
// nodes additionally carry an up link so the navigator can climb the head
// and tail columns.
//
// Every field except successor, backLink and retireOnce is fixed before the node is
// published to other goroutines (down/towerRoot on user nodes, up on
// sentinels), so they need no atomic protection: a node is only ever
// reachable after the CAS that links it in has already established a
// happens-before edge for the rest of its fields.
type Node struct {
	key       int64
	element   int64 // meaningful only on root nodes
	successor Successor
	backLink  atomic.Pointer[Node]
	down      *Node
	towerRoot *Node
	up        *Node // sentinels only
	level     int   // sentinels only, 1-indexed

	retireOnce atomic.Bool
}

// newRootNode allocates the level-1 node of a new tower. Its towerRoot
// points to itself, matching the invariant that every node's towerRoot
// names a node that, if marked, means the whole tower is logically gone.
func newRootNode(key, element int64) *Node {
	n := &Node{key: key, element: element}
	n.towerRoot = n
	return n
}

// newUpperNode allocates a level-ℓ≥2 node of an existing tower.
func newUpperNode(key int64, down, towerRoot *Node) *Node {
	return &Node{key: key, down: down, towerRoot: towerRoot}
}

// newSentinel allocates one cell of a head or tail column. towerRoot is
// wired up by buildSentinelColumns once both columns exist, per §4.4.1: it
// must point to a node that is never marked, and the base sentinel itself
// fits since sentinels are never removed.
func newSentinel(key int64) *Node {
	return &Node{key: key}
}

// Key returns the node's key.
func (n *Node) Key() int64 { return n.key }

// Element returns the node's element. Only meaningful for root nodes.
func (n *Node) Element() int64 { return n.element }

// backLinkFollow walks back-links until it finds a predecessor that is not
// (yet) logically deleted, per §4.3.2 step 3 / GLOSSARY "Back-link".
func backLinkFollow(n *Node) *Node {
	for n.successor.Marked() {
		bl := n.backLink.Load()
		if bl == nil {
			// No back-link published yet; the marking thread hasn't
			// finished help_flagged's step 1. Spin until it has.
			continue
		}
		n = bl
	}
	return n
}

// buildSentinelColumns constructs the two columns of maxLevel head/tail
// sentinels described in §4.4.1: each head's successor is the tail at the
// same level, heads are chained upward via up (the top head's up points to
// itself) and downward via down, and every sentinel's towerRoot is the base
// head so search_right's zombie check is always a no-op for sentinels.
//
// heads[i]/tails[i] are the level-(i+1) sentinels; heads[0]/tails[0] are the
// base (level 1) column.
func buildSentinelColumns(maxLevel int) (heads, tails []*Node) {
	heads = make([]*Node, maxLevel)
	tails = make([]*Node, maxLevel)
	for i := 0; i < maxLevel; i++ {
		heads[i] = newSentinel(MinKey)
		tails[i] = newSentinel(MaxKey)
		heads[i].level = i + 1
		tails[i].level = i + 1
	}

	base := heads[0]
	for i := 0; i < maxLevel; i++ {
		heads[i].towerRoot = base
		tails[i].towerRoot = base
		heads[i].successor.initSuccessor(tails[i])
		tails[i].successor.initSuccessor(nil)

		if i+1 < maxLevel {
			heads[i].up = heads[i+1]
			tails[i].up = tails[i+1]
		} else {
			heads[i].up = heads[i]
			tails[i].up = tails[i]
		}
		if i > 0 {
			heads[i].down = heads[i-1]
			tails[i].down = tails[i-1]
		}
	}

	return heads, tails
}
