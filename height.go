package skiplist

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// heightSource draws randomized tower heights per §4.6, using a pool of
// per-draw *rand.Rand generators so concurrent Insert calls never
// contend on a single shared generator the way a mutex-guarded
// math/rand.Rand would. This mirrors the teacher's rand.go, which keeps a
// seed per RNG instance rather than relying on the global lock-guarded
// math/rand source.
type heightSource struct {
	pool     sync.Pool
	p        float64
	nextSeed atomic.Int64
}

func newHeightSource(p float64) *heightSource {
	h := &heightSource{p: p}
	h.nextSeed.Store(time.Now().UnixNano())
	h.pool.New = func() any {
		return rand.New(rand.NewSource(h.drawSeed()))
	}
	return h
}

// drawSeed hands out a distinct seed to each newly created generator so
// pool churn under high goroutine counts doesn't collapse to identical
// sequences.
const seedStride uint64 = 0x9E3779B97F4A7C15

func (h *heightSource) drawSeed() int64 {
	stride := seedStride
	return h.nextSeed.Add(int64(stride))
}

// draw returns a height in [1, maxLevel], growing one level at a time
// while independent coin flips at probability p succeed, per the spec's
// geometric height distribution.
func (h *heightSource) draw(maxLevel int) int {
	rng := h.pool.Get().(*rand.Rand)
	defer h.pool.Put(rng)

	height := 1
	for height < maxLevel && rng.Float64() < h.p {
		height++
	}
	return height
}
