package skiplist

import "testing"

// Builds a bare three-node chain a -> b -> c at a single level, with no
// SkipList wrapping required since tryFlag/tryMark/helpFlagged only ever
// touch the Successor/backLink fields of the nodes passed to them.
func threeNodeChain() (a, b, c *Node) {
	a = newRootNode(10, 100)
	b = newRootNode(20, 200)
	c = newRootNode(30, 300)
	a.successor.initSuccessor(b)
	b.successor.initSuccessor(c)
	c.successor.initSuccessor(nil)
	return a, b, c
}

// tryMark must help a successor that is already flagged for deletion
// before attempting to mark itself, rather than CASing straight from
// (next, 0, 1) to (next, 1, 0) — a transition spec §3 never permits.
// This reproduces, deterministically and without goroutines, the exact
// state tryMark(b) observes when some other goroutine has concurrently
// flagged b's successor (here, a delete of c already in flight via b)
// before b itself gets marked (here, as part of a delete of b via a).
func TestTryMarkHelpsFlaggedSuccessorBeforeMarking(t *testing.T) {
	s := New()
	a, b, c := threeNodeChain()

	if _, status, first := s.tryFlag(b, c); !status || !first {
		t.Fatalf("tryFlag(b, c) = (_, %v, %v), want (_, true, true)", status, first)
	}
	if !b.successor.Flagged() || b.successor.Right() != c {
		t.Fatalf("b.successor = %+v, want flagged at c", b.successor.Load())
	}

	s.tryMark(b)

	if !c.successor.Marked() {
		t.Fatalf("c was never marked; b's flagged deletion of c was dropped")
	}
	if !b.successor.Marked() {
		t.Fatalf("b was never marked")
	}
	if b.successor.Right() == c {
		t.Fatalf("b.successor still points at c; helpMarked never unlinked it")
	}

	// b itself is now markable as a normal, already-flagged deletion: a's
	// own delete of b can complete exactly as any other helpFlagged call.
	if _, status, first := s.tryFlag(a, b); !status || !first {
		t.Fatalf("tryFlag(a, b) = (_, %v, %v), want (_, true, true)", status, first)
	}
	s.helpFlagged(a, b)
	if a.successor.Right() == b {
		t.Fatalf("a.successor still points at b after helpFlagged(a, b)")
	}
}
