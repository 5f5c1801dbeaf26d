package loglatch

import (
	"sync/atomic"

	"pkt.systems/loglatch/syncx"
)

// maxFreePerShard bounds how many buffers each buffer-cache shard will hold
// onto before letting the garbage collector reclaim the rest.
const maxFreePerShard = 64

// messageBuffer holds a Message's captured arguments plus a reference count
// so a single allocation can be shared between the producing goroutine and
// a DeferredEmitter's consumer without copying args.
type messageBuffer struct {
	args     []any
	refcount atomic.Int32
}

func (b *messageBuffer) retain() {
	b.refcount.Add(1)
}

func (b *messageBuffer) release() {
	if b.refcount.Add(-1) > 0 {
		return
	}
	b.args = b.args[:0]
	releaseBuffer(b)
}

type bufferShard struct {
	free []*messageBuffer
}

var bufferCache = syncx.NewReplicated(0, func() bufferShard { return bufferShard{} })

func acquireBuffer() *messageBuffer {
	hash := syncx.ShardHash()
	b := syncx.At(bufferCache, hash, func(s *bufferShard) *messageBuffer {
		n := len(s.free)
		if n == 0 {
			return nil
		}
		b := s.free[n-1]
		s.free = s.free[:n-1]
		return b
	})
	if b == nil {
		b = &messageBuffer{}
	}
	b.refcount.Store(1)
	return b
}

func releaseBuffer(b *messageBuffer) {
	hash := syncx.ShardHash()
	syncx.At(bufferCache, hash, func(s *bufferShard) struct{} {
		if len(s.free) < maxFreePerShard {
			s.free = append(s.free, b)
		}
		return struct{}{}
	})
}
