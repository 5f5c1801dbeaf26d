// Package dispatch implements asynchronous, latency-bounded message
// delivery on top of the latency package's Queue. A DeferredEmitter
// accepts messages on the caller's goroutine and hands them to an
// AsyncDispatcher's worker pool, trading strict delivery ordering across
// goroutines for a producer that never blocks longer than its configured
// timeout.
package dispatch

import (
	"context"
	"sync"
	"time"

	"pkt.systems/loglatch"
	"pkt.systems/loglatch/latency"
)

// Action is one deferred emit: a message bound for a destination emitter,
// still carrying the originating site so the destination can render its
// location and tag.
type Action struct {
	Destination loglatch.Emitter
	Site        *loglatch.Site
	Message     *loglatch.Message
}

// AsyncDispatcher owns a latency.Queue[Action] and one worker goroutine per
// queue slot, each pulling actions out of its depot and calling
// Destination.Emit. Sites should not emit into an AsyncDispatcher directly;
// they go through a DeferredEmitter, which owns the producer-side timeout.
type AsyncDispatcher struct {
	queue       *latency.Queue[Action]
	sweepTicker *time.Ticker
	wg          sync.WaitGroup
	stop        chan struct{}
	stopped     sync.Once
}

// New starts an AsyncDispatcher with the given number of slots and sweep
// interval. A sweepInterval <= 0 defaults to 10 milliseconds, bounding how
// long a sparsely-fed slot's producer cache can sit unflushed.
func New(slots int, sweepInterval time.Duration) *AsyncDispatcher {
	if sweepInterval <= 0 {
		sweepInterval = 10 * time.Millisecond
	}
	d := &AsyncDispatcher{
		queue:       latency.New[Action](slots),
		sweepTicker: time.NewTicker(sweepInterval),
		stop:        make(chan struct{}),
	}
	d.wg.Add(d.queue.Slots() + 1)
	go d.sweepLoop()
	for slot := 0; slot < d.queue.Slots(); slot++ {
		go d.worker(slot)
	}
	return d
}

func (d *AsyncDispatcher) sweepLoop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stop:
			return
		case <-d.sweepTicker.C:
			for slot := 0; slot < d.queue.Slots(); slot++ {
				d.queue.Sweep(slot)
			}
		}
	}
}

func (d *AsyncDispatcher) worker(slot int) {
	defer d.wg.Done()
	stopped := func() bool {
		select {
		case <-d.stop:
			return true
		default:
			return false
		}
	}
	for {
		processed := d.queue.Remove(slot, stopped, func(a Action) {
			a.Destination.Emit(a.Site, a.Message)
			a.Message.Release()
		})
		if stopped() {
			return
		}
		if !processed {
			time.Sleep(time.Millisecond)
		}
	}
}

// Deferred returns a DeferredEmitter that hands messages destined for dst
// to this dispatcher's queue, giving each Insert call up to timeout before
// giving up and dropping the message (reported through onDrop if non-nil).
func (d *AsyncDispatcher) Deferred(dst loglatch.Emitter, timeout time.Duration, onDrop func(*loglatch.Site, *loglatch.Message)) *DeferredEmitter {
	if timeout <= 0 {
		timeout = 5 * time.Millisecond
	}
	return &DeferredEmitter{dispatcher: d, dst: dst, timeout: timeout, onDrop: onDrop}
}

// Flush blocks until every action enqueued before this call has been
// passed to a worker's Destination.Emit, or ctx is done.
func (d *AsyncDispatcher) Flush(ctx context.Context) bool {
	f := latency.NewFlush()
	d.queue.EnqueueFlush(f)
	return f.Wait(ctx)
}

// Close stops the sweep loop and every worker, waiting for them to drain
// their current depot pass before returning.
func (d *AsyncDispatcher) Close() error {
	d.stopped.Do(func() {
		close(d.stop)
		d.sweepTicker.Stop()
	})
	d.wg.Wait()
	return nil
}

// DeferredEmitter is an Emitter that forwards into an AsyncDispatcher's
// queue instead of emitting synchronously. Install it on a ConfigManager
// policy the same way any other Emitter is installed.
type DeferredEmitter struct {
	dispatcher *AsyncDispatcher
	dst        loglatch.Emitter
	timeout    time.Duration
	onDrop     func(*loglatch.Site, *loglatch.Message)
}

// Emit retains msg (since the worker goroutine will read it later, after
// the caller's stack frame that built it is gone) and inserts an Action
// into the dispatcher's queue, giving up after d.timeout.
func (d *DeferredEmitter) Emit(site *loglatch.Site, msg *loglatch.Message) {
	msg.Retain()
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if d.dispatcher.queue.Insert(ctx, Action{Destination: d.dst, Site: site, Message: msg}) {
		return
	}
	msg.Release()
	if d.onDrop != nil {
		d.onDrop(site, msg)
	}
}
