package nic

import (
	"context"
	"log/slog"
	"time"
)

// Poll asks the device for pending frames and queues them into the receive
// ring. It is invoked on a fixed period by Run and once at the start of
// every I/O operation, so status always reflects the latest arrivals.
//
// Poll is a no-op unless the interface is Initialized, and it only queries
// the device while the ring is empty: this bounds the work done per tick
// and keeps the ring from being refilled faster than the consumer drains
// it.
func (n *Interface) Poll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pollLocked()
}

func (n *Interface) pollLocked() {
	if n.state != StateInitialized {
		return
	}
	if !n.ring.empty() {
		return
	}

	accepted := 0
	err := n.dev.PollIncoming(func(frame []byte) {
		// A frame must carry at least a media header and must fit a slot.
		if len(frame) < MediaHeaderSize || len(frame) > MaxFrameSize {
			slog.Debug("discarding malformed frame", "len", len(frame))
			return
		}
		if !n.ring.push(frame) {
			// Ring full: accepted loss, no backpressure to the sender.
			slog.Debug("receive ring full, dropping frame", "len", len(frame))
			return
		}
		accepted++
	})
	if err != nil {
		slog.Warn("device poll failed", "error", err)
	}

	if accepted > 0 {
		n.intStatus |= ReceiveInterrupt
		n.waitSignal = true
	}
}

// Run polls the device on a fixed period until ctx is cancelled. It stands
// in for the timer event a firmware environment would fire on every
// scheduler tick.
func (n *Interface) Run(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.Poll()
		}
	}
}
