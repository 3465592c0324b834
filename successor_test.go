package skiplist

import "testing"

// S6 — successor bit contract: make(p,false,false) is neither marked nor
// flagged; make(p,true,false) is marked, not flagged; make(p,false,true)
// is flagged, not marked; all three keep the right pointer they were given.
func TestMakeSuccessorWordBitContract(t *testing.T) {
	p := newSentinel(0)

	neither := makeSuccessorWord(p, false, false)
	if neither.mark || neither.flag {
		t.Fatalf("make(p,false,false) = %+v, want neither marked nor flagged", neither)
	}

	marked := makeSuccessorWord(p, true, false)
	if !marked.mark || marked.flag {
		t.Fatalf("make(p,true,false) = %+v, want marked, not flagged", marked)
	}

	flagged := makeSuccessorWord(p, false, true)
	if flagged.mark || !flagged.flag {
		t.Fatalf("make(p,false,true) = %+v, want flagged, not marked", flagged)
	}

	if neither.right != p || marked.right != p || flagged.right != p {
		t.Fatalf("right pointer must be preserved across all three constructions")
	}
}

func TestMakeSuccessorWordMarkWinsOverFlag(t *testing.T) {
	p := newSentinel(0)
	w := makeSuccessorWord(p, true, true)
	if !w.mark || w.flag {
		t.Fatalf("mark and flag requested together: got %+v, want mark to win", w)
	}
}

func TestSuccessorCASIdentity(t *testing.T) {
	var s Successor
	a := newSentinel(1)
	b := newSentinel(2)
	s.initSuccessor(a)

	stale := makeSuccessorWord(a, false, false)
	if s.CAS(stale, b, false, false) {
		t.Fatalf("CAS succeeded against a freshly constructed word, want failure (identity compare)")
	}

	cur := s.Load()
	if !s.CAS(cur, b, false, false) {
		t.Fatalf("CAS against the actual loaded word failed")
	}
	if s.Right() != b {
		t.Fatalf("Right() = %v, want %v", s.Right(), b)
	}
}

func TestBackLinkFollowSkipsMarkedChain(t *testing.T) {
	a := newRootNode(1, 10)
	b := newRootNode(2, 20)
	c := newRootNode(3, 30)

	a.successor.Store(b, true, false)
	a.backLink.Store(b)
	b.successor.Store(c, true, false)
	b.backLink.Store(c)
	c.successor.initSuccessor(nil)

	got := backLinkFollow(a)
	if got != c {
		t.Fatalf("backLinkFollow(a) = %v, want %v", got.key, c.key)
	}
}
