package nic

import "net"

// Frame geometry. Standard Ethernet with an optional single VLAN tag; jumbo
// frames are rejected at the transmit boundary.
const (
	// MediaHeaderSize is the size of an untagged Ethernet header.
	MediaHeaderSize = 14
	// MaxPacketSize is the largest frame accepted on receive.
	MaxPacketSize = 1518
	// MaxFrameSize is the aligned transmit ceiling.
	MaxFrameSize = 1536

	vlanTagSize = 4

	// maxExtraHeadroom bounds the per-direction buffer headroom a caller
	// may request at initialization.
	maxExtraHeadroom = 1 << 20
)

// Device is the boundary to the underlying driver. Implementations are
// assumed to be bound to exactly one physical (or simulated) device before
// this layer touches them.
type Device interface {
	// BringUp gets the hardware ready for send and receive operations.
	BringUp() error

	// Halt disables the hardware and puts it into the reset state. It must
	// be safe to call in any device state.
	Halt()

	// Send hands one frame to the hardware. The slice is only valid for the
	// duration of the call; the device must not retain it.
	Send(frame []byte) error

	// PollIncoming delivers any pending received frames through deliver,
	// one call per frame, then returns. It never blocks waiting for
	// traffic.
	PollIncoming(deliver func(frame []byte)) error

	// HardwareAddr returns the station MAC address.
	HardwareAddr() net.HardwareAddr
}
