package nic

// RingCapacity is the number of receive slots. Frames arriving while all
// slots are occupied are dropped; the ring never grows.
const RingCapacity = 32

// frameRing is a fixed-capacity FIFO of received frame copies. All slot
// storage is allocated once at construction; push copies into the next free
// slot and never allocates.
type frameRing struct {
	slots   [RingCapacity][]byte
	lengths [RingCapacity]int
	head    int
	count   int
}

func newFrameRing(slotSize int) *frameRing {
	r := &frameRing{}
	backing := make([]byte, RingCapacity*slotSize)
	for i := range r.slots {
		r.slots[i] = backing[i*slotSize : (i+1)*slotSize]
	}
	return r
}

// push copies frame into the next free slot. It reports false when the ring
// is full; the frame is dropped in that case.
func (r *frameRing) push(frame []byte) bool {
	if r.count >= RingCapacity {
		return false
	}
	next := (r.head + r.count) % RingCapacity
	copy(r.slots[next], frame)
	r.lengths[next] = len(frame)
	r.count++
	return true
}

// peek returns the oldest queued frame without consuming it.
func (r *frameRing) peek() []byte {
	return r.slots[r.head][:r.lengths[r.head]]
}

// pop discards the oldest queued frame.
func (r *frameRing) pop() {
	r.head = (r.head + 1) % RingCapacity
	r.count--
}

func (r *frameRing) reset() {
	r.head = 0
	r.count = 0
}

func (r *frameRing) empty() bool { return r.count == 0 }
