package nic

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulticastIPToMAC(t *testing.T) {
	iface, _ := initialized(t)

	mac, err := iface.MulticastIPToMAC(net.IPv4(230, 1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, net.HardwareAddr{0x01, 0x00, 0x5e, 0x01, 0x02, 0x03}, mac)

	// The high bit of the second octet is masked off (23-bit mapping).
	mac, err = iface.MulticastIPToMAC(net.IPv4(239, 129, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, net.HardwareAddr{0x01, 0x00, 0x5e, 0x01, 0x02, 0x03}, mac)
}

func TestMulticastIPToMACRejectsUnicast(t *testing.T) {
	iface, _ := initialized(t)

	_, err := iface.MulticastIPToMAC(net.IPv4(10, 0, 0, 1))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMulticastIPToMACRejectsIPv6(t *testing.T) {
	iface, _ := initialized(t)

	_, err := iface.MulticastIPToMAC(net.ParseIP("ff02::1"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestMulticastIPToMACNilAddress(t *testing.T) {
	iface, _ := initialized(t)

	_, err := iface.MulticastIPToMAC(nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMulticastIPToMACStateGating(t *testing.T) {
	dev := newFakeDevice()
	iface, err := New(dev)
	require.NoError(t, err)

	_, err = iface.MulticastIPToMAC(net.IPv4(224, 0, 0, 1))
	assert.ErrorIs(t, err, ErrNotStarted)

	// Started is enough; Initialized is not required for the mapping.
	require.NoError(t, iface.Start())
	_, err = iface.MulticastIPToMAC(net.IPv4(224, 0, 0, 1))
	assert.NoError(t, err)
}
