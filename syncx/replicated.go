package syncx

import (
	"runtime"
	"unsafe"
)

// Replicated shards a Synchronized[T] across 2*GOMAXPROCS cells by default,
// reducing contention when many goroutines touch logically independent
// copies of the same state (the buffer cache's free lists, primarily).
type Replicated[T any] struct {
	shards []*Synchronized[T]
}

// NewReplicated builds a Replicated[T] with shardCount shards, each
// initialized via newValue. A shardCount <= 0 defaults to
// 2*runtime.GOMAXPROCS(0).
func NewReplicated[T any](shardCount int, newValue func() T) *Replicated[T] {
	if shardCount <= 0 {
		shardCount = 2 * runtime.GOMAXPROCS(0)
	}
	if shardCount < 1 {
		shardCount = 1
	}
	shards := make([]*Synchronized[T], shardCount)
	for i := range shards {
		shards[i] = NewSynchronized(newValue())
	}
	return &Replicated[T]{shards: shards}
}

// Shards returns the number of shards.
func (r *Replicated[T]) Shards() int { return len(r.shards) }

// At runs fn against the shard selected by hash % Shards().
func At[T any, R any](r *Replicated[T], hash uint64, fn func(*T) R) R {
	shard := r.shards[hash%uint64(len(r.shards))]
	return With(shard, fn)
}

// ReplicatedWith runs fn against every shard in turn and collects the
// results in shard order.
func ReplicatedWith[T any, R any](r *Replicated[T], fn func(*T) R) []R {
	results := make([]R, len(r.shards))
	for i, shard := range r.shards {
		results[i] = With(shard, fn)
	}
	return results
}

// ShardHash returns a cheap per-call-stack hash suitable for picking a
// Replicated shard. Go exposes no goroutine id, so this hashes the address
// of a stack-local byte: different goroutines almost always land on
// different stack regions, which is all that is needed for load spreading,
// not correctness.
func ShardHash() uint64 {
	var probe byte
	return uint64(uintptr(unsafe.Pointer(&probe)))
}
