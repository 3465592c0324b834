package skiplist

// This file implements the per-level list protocol of §4.3: search_right,
// the flag/mark helping pair, and insert_node. Every method here operates
// on a single level's worth of Successor links; the tower is assembled on
// top of these primitives in navigate.go and skiplist.go.

// searchRight walks right from curr at the level curr belongs to, helping
// unlink any zombie tower (one whose towerRoot is already marked) it
// encounters, and returns the rightmost node with key <= k together with
// its current successor.
func (s *SkipList) searchRight(k int64, curr *Node) (*Node, *Node) {
	next := curr.successor.Right()
	for next.key <= k {
		for next.towerRoot.successor.Marked() {
			var status bool
			curr, status, _ = s.tryFlag(curr, next)
			if status {
				s.helpFlagged(curr, next)
			}
			next = curr.successor.Right()
			if next.key > k {
				break
			}
		}
		if next.key <= k {
			curr = next
			next = curr.successor.Right()
		}
	}
	return curr, next
}

// tryFlag attempts to flag prev's successor pointer to target for deletion
// without yet removing it, per §4.3.2. It returns the (possibly advanced)
// predecessor, whether target is flagged for deletion by *someone* when it
// returns (status), and whether this call is the one that set the flag
// (first).
func (s *SkipList) tryFlag(prev, target *Node) (newPrev *Node, status, first bool) {
	for {
		cur := prev.successor.Load()
		if cur.right == target && !cur.mark {
			if cur.flag {
				return prev, true, false
			}
			if prev.successor.CAS(cur, target, false, true) {
				return prev, true, true
			}
			s.metrics.IncInsertRetry()
		}

		// Either target is no longer prev's successor, or the flagging CAS
		// lost a race; re-derive prev and re-check from the top.
		prev = backLinkFollow(prev)
		var d *Node
		prev, d = s.searchRight(target.key-1, prev)
		if d != target {
			return prev, false, false
		}
	}
}

// helpFlagged finishes a deletion that has already been flagged: it
// publishes the back-link, marks del if that hasn't happened yet, and
// finally unlinks del from prev.
func (s *SkipList) helpFlagged(prev, del *Node) {
	s.metrics.IncHelp()
	del.backLink.Store(prev)
	if !del.successor.Marked() {
		s.tryMark(del)
	}
	s.helpMarked(prev, del)
}

// tryMark sets del's own mark bit. The only legal mark transition is
// (next, 0, 0) -> (next, 1, 0) (spec §3), so a flagged cur must be helped
// to completion before attempting the CAS, exactly as tryFlag helps a
// flagged predecessor before attempting its own CAS: CASing straight from
// (next, 0, 1) to (next, 1, 0) would succeed trivially (no contention,
// since it only has to match a word we just loaded) while silently
// dropping the in-flight flagged deletion of next.
func (s *SkipList) tryMark(del *Node) {
	for !del.successor.Marked() {
		cur := del.successor.Load()
		if cur.flag {
			s.helpFlagged(del, cur.right)
			continue
		}
		if del.successor.CAS(cur, cur.right, true, false) {
			return
		}
		s.metrics.IncInsertRetry()
	}
}

// helpMarked physically unlinks del, which must already be marked, from
// prev, whose successor must still be flagged at del. If some other
// goroutine already completed the unlink, this is a no-op.
func (s *SkipList) helpMarked(prev, del *Node) {
	cur := prev.successor.Load()
	if cur.right != del || cur.mark || !cur.flag {
		return
	}
	next := del.successor.Right()
	if prev.successor.CAS(cur, next, false, false) {
		s.retire(del)
	}
}

// insertNode links new between prev and next at prev's level, per §4.3.3.
// prev.key < new.key < next.key and prev.successor.right() == next are
// expected on entry; if they have gone stale, insertNode re-navigates from
// prev before linking. It returns (prev, new) on success or (prev, nil) if new's
// key already occupies prev's position (a concurrent duplicate insert).
func (s *SkipList) insertNode(newNode, prev, next *Node) (*Node, *Node) {
	if prev.key == newNode.key {
		return prev, nil
	}

	for {
		p := prev.successor.Load()
		if p.flag {
			s.helpFlagged(prev, p.right)
		} else {
			newNode.successor.Store(next, false, false)
			// Only (next, 0, 0) -> (newNode, 0, 0) is a legal transition: a
			// marked prev or a prev whose successor moved past next must be
			// re-navigated, not overwritten.
			if p.right == next && !p.mark && prev.successor.CAS(p, newNode, false, false) {
				s.metrics.IncInsertSuccess()
				return prev, newNode
			}
			s.metrics.IncInsertRetry()
			observed := prev.successor.Load()
			if observed.flag {
				s.helpFlagged(prev, observed.right)
			}
			prev = backLinkFollow(prev)
		}

		prev, next = s.searchRight(newNode.key, prev)
		if prev.key == newNode.key {
			return prev, nil
		}
	}
}
