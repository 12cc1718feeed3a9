package nic

import (
	"fmt"
	"net"
)

// MulticastIPToMAC maps a class-D IPv4 address onto the IANA-assigned
// multicast MAC range 01:00:5E by copying the low 23 bits of the address
// (RFC 1112, RFC 7042 2.1.1). IPv6 mapping is not supported.
func (n *Interface) MulticastIPToMAC(ip net.IP) (net.HardwareAddr, error) {
	if ip == nil {
		return nil, fmt.Errorf("%w: nil address", ErrInvalidParameter)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("%w: IPv6 multicast mapping", ErrUnsupported)
	}
	// Multicast addresses are in the range 224.0.0.0 - 239.255.255.255.
	if ip4[0]&0xf0 != 0xe0 {
		return nil, fmt.Errorf("%w: %s is not a class-D address", ErrInvalidParameter, ip4)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	switch n.state {
	case StateStarted, StateInitialized:
	default:
		return nil, ErrNotStarted
	}

	return net.HardwareAddr{0x01, 0x00, 0x5e, ip4[1] & 0x7f, ip4[2], ip4[3]}, nil
}

// The remaining services of the protocol surface are exposed for contract
// completeness only; none of them are implemented by this layer.

// ReceiveFilters manages multicast receive filters.
func (n *Interface) ReceiveFilters(enable, disable uint32, resetMcast bool, filters []net.HardwareAddr) error {
	return ErrUnsupported
}

// StationAddress sets or resets the hardware MAC address.
func (n *Interface) StationAddress(reset bool, addr net.HardwareAddr) error {
	return ErrUnsupported
}

// Statistics resets or collects interface statistics.
func (n *Interface) Statistics(reset bool) error {
	return ErrUnsupported
}

// NVData reads or writes device non-volatile storage.
func (n *Interface) NVData(readWrite bool, offset int, buf []byte) error {
	return ErrUnsupported
}
