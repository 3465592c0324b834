package skiplist

// findStart and searchToLevel implement §4.4.2/§4.4.3's tower navigator:
// finding a cheap place to start a search at level v, then walking down to
// it one level at a time.
//
// §9's open question on find_start flags the original "walk up the head
// column until the next level looks empty" heuristic as racy against a
// concurrent insert that is still growing its tower through that level: the
// check and the climb are not atomic with respect to that insert, so the
// walk can stop one level too low or too high depending on timing, neither
// of which breaks correctness but both of which can degrade the intended
// O(log n) start. This module takes the defensive alternative §9 names
// explicitly: an atomic counter tracking the highest level any tower has
// ever reached, bumped by Insert once a tower's height is drawn. findStart
// starts at max(v, that counter), clamped to maxLevel, which is always at
// least as high as any level that currently holds a live node.

// findStart returns the head sentinel to begin a level-v-or-above search
// from, and its level.
func (s *SkipList) findStart(v int) (*Node, int) {
	top := int(s.topLevel.Load())
	if top < v {
		top = v
	}
	if top > s.maxLevel {
		top = s.maxLevel
	}
	return s.heads[top-1], top
}

// searchToLevel finds the predecessor/successor pair for key k at level v,
// descending from findStart's starting level one level at a time per
// §4.4.3.
func (s *SkipList) searchToLevel(k int64, v int) (*Node, *Node) {
	curr, level := s.findStart(v)
	for level > v {
		curr, _ = s.searchRight(k, curr)
		curr = curr.down
		level--
	}
	return s.searchRight(k, curr)
}
