package skiplist

import (
	"math/bits"
	"runtime"
	"sync/atomic"
	"time"
)

// metricShard holds one shard's worth of counters, padded to a cache line
// so concurrent increments from different goroutines don't false-share,
// matching the teacher's metrics.go shard layout.
type metricShard struct {
	insertRetries   atomic.Int64
	insertSuccesses atomic.Int64
	helpOperations  atomic.Int64
	_               [40]byte
}

// metrics is a sharded set of atomic counters recording CAS retries,
// successful inserts, and completed helping operations, per §5.2 of
// SPEC_FULL.md. Sharding avoids turning a single hot counter into a new
// source of contention on the lock-free fast path.
type metrics struct {
	shards []metricShard
	mask   uint32
	seed   atomic.Uint64
}

func newMetrics() *metrics {
	n := nextPowerOfTwo(runtime.GOMAXPROCS(0))
	m := &metrics{shards: make([]metricShard, n), mask: uint32(n - 1)}
	seed := uint64(time.Now().UnixNano()) | 1
	m.seed.Store(seed)
	return m
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(v-1))
}

// shard picks a shard via a xorshift64 step CASed onto m.seed, the same
// lock-free PRNG idiom the teacher's rand.go uses for nextRandom64.
func (m *metrics) shard() *metricShard {
	if len(m.shards) == 1 {
		return &m.shards[0]
	}
	for {
		cur := m.seed.Load()
		x := cur
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		if m.seed.CompareAndSwap(cur, x) {
			return &m.shards[uint32(x)&m.mask]
		}
	}
}

func (m *metrics) IncInsertRetry()   { m.shard().insertRetries.Add(1) }
func (m *metrics) IncInsertSuccess() { m.shard().insertSuccesses.Add(1) }
func (m *metrics) IncHelp()          { m.shard().helpOperations.Add(1) }

func (m *metrics) snapshot() (retries, successes, helps int64) {
	for i := range m.shards {
		retries += m.shards[i].insertRetries.Load()
		successes += m.shards[i].insertSuccesses.Load()
		helps += m.shards[i].helpOperations.Load()
	}
	return retries, successes, helps
}
