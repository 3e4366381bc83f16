// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// batch coalesces paths and hands them to flush once no path was added for
// delay. A flush still running when the next window closes is not overlapped;
// the window is re-armed instead.
type batch struct {
	delay time.Duration
	flush func(changed []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	stopped bool

	busy atomic.Bool
}

func newBatch(delay time.Duration, flush func(changed []string)) *batch {
	return &batch{delay: delay, flush: flush, pending: make(map[string]struct{})}
}

// add records path and restarts the quiet period.
func (b *batch) add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	b.pending[path] = struct{}{}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.delay, b.fire)
		return
	}
	b.timer.Reset(b.delay)
}

func (b *batch) fire() {
	if !b.busy.CompareAndSwap(false, true) {
		b.mu.Lock()
		if !b.stopped {
			b.timer.Reset(b.delay)
		}
		b.mu.Unlock()
		return
	}
	defer b.busy.Store(false)

	b.mu.Lock()
	changed := slices.Sorted(maps.Keys(b.pending))
	clear(b.pending)
	b.mu.Unlock()

	if len(changed) > 0 {
		b.flush(changed)
	}
}

// stop cancels a pending window. Paths added afterwards are dropped.
func (b *batch) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
	}
}
