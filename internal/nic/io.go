package nic

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"

	"github.com/google/gopacket/layers"
)

// FrameInfo describes the media header of a received frame. HeaderSize
// accounts for a single VLAN tag when one is present, and Protocol is the
// EtherType behind the tag in that case.
type FrameInfo struct {
	HeaderSize int
	Dest       net.HardwareAddr
	Src        net.HardwareAddr
	Protocol   uint16
}

// Receive copies the oldest queued frame into buf and returns the number of
// bytes copied along with the decoded media header.
//
// If buf cannot hold the frame, Receive returns a BufferTooSmallError
// carrying the required size and leaves the frame queued, so the caller can
// retry with a larger buffer and still observe the same frame. If no frame
// is queued it returns ErrNotReady.
func (n *Interface) Receive(buf []byte) (int, *FrameInfo, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.pollLocked()

	if buf == nil {
		return 0, nil, fmt.Errorf("%w: nil buffer", ErrInvalidParameter)
	}
	if err := n.gateLocked(); err != nil {
		return 0, nil, err
	}
	if n.ring.empty() {
		return 0, nil, ErrNotReady
	}

	frame := n.ring.peek()
	info := decodeMediaHeader(frame)

	if len(buf) < len(frame) {
		return 0, info, &BufferTooSmallError{Required: len(frame)}
	}

	copied := copy(buf, frame)
	n.ring.pop()
	if n.ring.empty() {
		n.intStatus &^= ReceiveInterrupt
		n.waitSignal = false
	} else {
		n.waitSignal = true
	}
	return copied, info, nil
}

// decodeMediaHeader reads the Ethernet header of a queued frame. Frames are
// validated to be at least MediaHeaderSize long before they enter the ring.
func decodeMediaHeader(frame []byte) *FrameInfo {
	headerSize := MediaHeaderSize
	protocol := binary.BigEndian.Uint16(frame[12:14])
	if protocol == uint16(layers.EthernetTypeDot1Q) && len(frame) >= MediaHeaderSize+vlanTagSize {
		headerSize += vlanTagSize
		protocol = binary.BigEndian.Uint16(frame[headerSize-2 : headerSize])
	}
	return &FrameInfo{
		HeaderSize: headerSize,
		Dest:       append(net.HardwareAddr{}, frame[0:6]...),
		Src:        append(net.HardwareAddr{}, frame[6:12]...),
		Protocol:   protocol,
	}
}

// Transmit stages buf in the bounce buffer and hands it to the device.
//
// With headerSize zero, buf must already carry a complete media header.
// With headerSize equal to the media header size, the header is constructed
// in place in buf from dest, src and protocol; a nil src defaults to the
// station address. No other headerSize is legal.
//
// Transmission is synchronously complete from the caller's perspective: the
// TransmitInterrupt bit is raised immediately and buf is recorded as the
// pending transmit handle for the next GetStatus call to return.
func (n *Interface) Transmit(headerSize int, buf []byte, src, dest net.HardwareAddr, protocol uint16) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.pollLocked()

	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidParameter)
	}
	// No jumbo frames.
	if len(buf) > MaxFrameSize {
		return fmt.Errorf("%w: frame exceeds %d bytes", ErrInvalidParameter, MaxFrameSize)
	}
	if len(buf) < MediaHeaderSize {
		return &BufferTooSmallError{Required: MediaHeaderSize}
	}

	if headerSize != 0 {
		if dest == nil || headerSize != MediaHeaderSize {
			return fmt.Errorf("%w: header construction needs destination and header size %d",
				ErrInvalidParameter, MediaHeaderSize)
		}
		if src == nil {
			src = n.hwaddr
		}
		copy(buf[0:6], dest)
		copy(buf[6:12], src)
		binary.BigEndian.PutUint16(buf[12:14], protocol)
	}

	if err := n.gateLocked(); err != nil {
		return err
	}

	// Ethernet frames always fit the bounce buffer, just copy.
	copy(n.txBounce, buf)
	if err := n.dev.Send(n.txBounce[:len(buf)]); err != nil {
		slog.Warn("device send failed", "len", len(buf), "error", err)
	}

	n.pendingTx = buf
	n.intStatus |= TransmitInterrupt
	return nil
}

// GetStatus polls the device once, then returns and clears the interrupt
// status bits and the pending transmit handle.
func (n *Interface) GetStatus() (InterruptStatus, []byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.pollLocked()

	if err := n.gateLocked(); err != nil {
		return 0, nil, err
	}

	status := n.intStatus
	n.intStatus = 0
	txbuf := n.pendingTx
	n.pendingTx = nil
	return status, txbuf, nil
}
