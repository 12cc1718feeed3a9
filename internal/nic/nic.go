// Package nic implements the simple-network protocol layer exposed to
// pre-boot applications: a lifecycle state machine over a single active
// network device, a bounded receive ring fed by periodic polling, and a
// bounce-buffered transmit path.
package nic

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// InterruptStatus is the edge-triggered interrupt status bitset. Bits are
// set by the producers (frame arrival, transmit completion) and cleared by
// GetStatus / Receive.
type InterruptStatus uint32

const (
	// ReceiveInterrupt is set when at least one frame was queued.
	ReceiveInterrupt InterruptStatus = 1 << 0
	// TransmitInterrupt is set when a transmit completed.
	TransmitInterrupt InterruptStatus = 1 << 1
)

// Mode is a snapshot of the interface's static and lifecycle state, in the
// shape consumers of the protocol surface expect.
type Mode struct {
	State           State
	HardwareAddr    net.HardwareAddr
	MediaHeaderSize int
	MaxPacketSize   int
}

// Interface is the single active network interface. All shared state of the
// protocol layer (ring, interrupt bits, pending transmit handle, wait
// signal) lives here and is only observable through its methods.
//
// Interface methods never block: every operation either completes
// synchronously or returns ErrNotReady for the caller to re-poll.
type Interface struct {
	mu    sync.Mutex
	state State

	dev    Device
	hwaddr net.HardwareAddr

	ring     *frameRing
	txBounce []byte

	// pendingTx holds the caller buffer of the most recent transmit until
	// the next GetStatus call observes it. A second transmit before that
	// observation overwrites the handle; the completion notification for
	// the first buffer is lost. This single-buffered behavior is a
	// documented limitation of the protocol surface, not a defect.
	pendingTx []byte

	intStatus  InterruptStatus
	waitSignal bool

	dhcpAck []byte
}

// New registers the interface over dev. The receive ring and the transmit
// bounce buffer are allocated here, once, and never resized.
func New(dev Device) (*Interface, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidParameter)
	}
	hwaddr := dev.HardwareAddr()
	if len(hwaddr) != 6 {
		return nil, fmt.Errorf("%w: device reports %d-byte hardware address", ErrDeviceError, len(hwaddr))
	}
	n := &Interface{
		state:    StateStopped,
		dev:      dev,
		hwaddr:   append(net.HardwareAddr{}, hwaddr...),
		ring:     newFrameRing(MaxFrameSize),
		txBounce: make([]byte, MaxFrameSize),
	}
	return n, nil
}

// setState records a lifecycle transition. Callers must hold mu.
func (n *Interface) setState(s State) {
	n.state = s
	slog.Info("interface state changed", "state", s)
}

// State returns the current lifecycle state.
func (n *Interface) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Mode returns a snapshot of the interface mode.
func (n *Interface) Mode() Mode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Mode{
		State:           n.state,
		HardwareAddr:    append(net.HardwareAddr{}, n.hwaddr...),
		MediaHeaderSize: MediaHeaderSize,
		MaxPacketSize:   MaxPacketSize,
	}
}

// Start claims the interface: Stopped -> Started. The device stays down
// until Initialize.
func (n *Interface) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state != StateStopped {
		return ErrAlreadyStarted
	}
	n.intStatus = 0
	n.waitSignal = false
	n.setState(StateStarted)
	return nil
}

// Stop releases the interface: {Started, Initialized} -> Stopped. The
// device is halted and all buffered received frames are discarded.
func (n *Interface) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == StateStopped {
		return ErrNotStarted
	}
	n.dev.Halt()
	n.ring.reset()
	n.setState(StateStopped)
	return nil
}

// Initialize brings the device up: {Started, Initialized} -> Initialized.
// extraRx and extraTx request additional buffer headroom; the underlying
// device may ignore them. Requests above 1 MiB per direction are refused
// with ErrOutOfResources, negatives with ErrInvalidParameter.
//
// If device bring-up fails the interface falls back to Stopped and the call
// reports ErrDeviceError.
func (n *Interface) Initialize(extraRx, extraTx int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.initializeLocked(extraRx, extraTx)
}

func (n *Interface) initializeLocked(extraRx, extraTx int) error {
	switch n.state {
	case StateStarted, StateInitialized:
	default:
		return ErrNotStarted
	}
	if extraRx < 0 || extraTx < 0 {
		return fmt.Errorf("%w: negative buffer headroom", ErrInvalidParameter)
	}
	if extraRx > maxExtraHeadroom || extraTx > maxExtraHeadroom {
		return fmt.Errorf("%w: %d+%d bytes of buffer headroom", ErrOutOfResources, extraRx, extraTx)
	}
	if extraRx > 0 || extraTx > 0 {
		slog.Debug("extra buffer headroom requested", "extra_rx", extraRx, "extra_tx", extraTx)
	}

	n.ring.reset()
	n.dev.Halt()
	if err := n.dev.BringUp(); err != nil {
		n.dev.Halt()
		n.setState(StateStopped)
		return fmt.Errorf("%w: bring-up failed: %v", ErrDeviceError, err)
	}
	n.intStatus = 0
	n.waitSignal = false
	n.setState(StateInitialized)
	return nil
}

// Reset reinitializes the interface. It is only legal from Initialized;
// calling it from Started is itself a device error, since the interface was
// never brought up to reset. extendedVerification is accepted for protocol
// compatibility and has no effect on the simulated and software devices
// this layer drives.
func (n *Interface) Reset(extendedVerification bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateInitialized:
	case StateStopped:
		return ErrNotStarted
	default:
		return ErrDeviceError
	}
	_ = extendedVerification

	n.setState(StateStarted)
	return n.initializeLocked(0, 0)
}

// Shutdown takes the device down without releasing the interface:
// Initialized -> Started.
func (n *Interface) Shutdown() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateInitialized:
	case StateStopped:
		return ErrNotStarted
	default:
		return ErrDeviceError
	}

	n.dev.Halt()
	n.intStatus = 0
	n.waitSignal = false
	n.setState(StateStarted)
	return nil
}

// PacketAvailable reports the level-triggered wait signal: true while at
// least one received frame is queued. Callers waiting for traffic re-check
// this in a loop with their own timeout; the interface never suspends them.
func (n *Interface) PacketAvailable() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.waitSignal
}

// SetDHCPAck stores a snapshot of the DHCP ack packet selected for this
// interface. The snapshot is truncated to the maximum packet size.
func (n *Interface) SetDHCPAck(pkt []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(pkt) > MaxPacketSize {
		pkt = pkt[:MaxPacketSize]
	}
	n.dhcpAck = append(n.dhcpAck[:0], pkt...)
}

// DHCPAck returns the stored DHCP ack snapshot, or nil if none was taken.
func (n *Interface) DHCPAck() []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.dhcpAck == nil {
		return nil
	}
	return append([]byte{}, n.dhcpAck...)
}

// gateLocked maps the current state to the error contract shared by the
// I/O operations: Stopped is "not started", Started is "not ready for I/O".
// Callers must hold mu.
func (n *Interface) gateLocked() error {
	switch n.state {
	case StateStopped:
		return ErrNotStarted
	case StateStarted:
		return ErrDeviceError
	default:
		return nil
	}
}
