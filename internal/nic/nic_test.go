package nic

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice is a scriptable Device for driving the interface in tests.
type fakeDevice struct {
	hwaddr     net.HardwareAddr
	bringUpErr error

	up       bool
	halts    int
	sent     [][]byte
	incoming [][]byte
	pollErr  error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		hwaddr: net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
	}
}

func (d *fakeDevice) BringUp() error {
	if d.bringUpErr != nil {
		return d.bringUpErr
	}
	d.up = true
	return nil
}

func (d *fakeDevice) Halt() {
	d.up = false
	d.halts++
}

func (d *fakeDevice) Send(frame []byte) error {
	d.sent = append(d.sent, append([]byte{}, frame...))
	return nil
}

func (d *fakeDevice) PollIncoming(deliver func(frame []byte)) error {
	if d.pollErr != nil {
		return d.pollErr
	}
	pending := d.incoming
	d.incoming = nil
	for _, frame := range pending {
		deliver(frame)
	}
	return nil
}

func (d *fakeDevice) HardwareAddr() net.HardwareAddr { return d.hwaddr }

// initialized returns an interface in the Initialized state.
func initialized(t *testing.T) (*Interface, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice()
	iface, err := New(dev)
	require.NoError(t, err)
	require.NoError(t, iface.Start())
	require.NoError(t, iface.Initialize(0, 0))
	return iface, dev
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = New(&fakeDevice{hwaddr: net.HardwareAddr{1, 2, 3}})
	assert.ErrorIs(t, err, ErrDeviceError)
}

func TestLifecycleHappyPath(t *testing.T) {
	dev := newFakeDevice()
	iface, err := New(dev)
	require.NoError(t, err)
	assert.Equal(t, StateStopped, iface.State())

	require.NoError(t, iface.Start())
	assert.Equal(t, StateStarted, iface.State())
	assert.False(t, dev.up)

	require.NoError(t, iface.Initialize(0, 0))
	assert.Equal(t, StateInitialized, iface.State())
	assert.True(t, dev.up)

	require.NoError(t, iface.Shutdown())
	assert.Equal(t, StateStarted, iface.State())
	assert.False(t, dev.up)

	require.NoError(t, iface.Stop())
	assert.Equal(t, StateStopped, iface.State())
}

func TestStartErrors(t *testing.T) {
	iface, _ := initialized(t)

	// Start is only legal from Stopped.
	assert.ErrorIs(t, iface.Start(), ErrAlreadyStarted)
	assert.Equal(t, StateInitialized, iface.State())

	require.NoError(t, iface.Shutdown())
	assert.ErrorIs(t, iface.Start(), ErrAlreadyStarted)
	assert.Equal(t, StateStarted, iface.State())
}

func TestStopErrors(t *testing.T) {
	dev := newFakeDevice()
	iface, err := New(dev)
	require.NoError(t, err)

	assert.ErrorIs(t, iface.Stop(), ErrNotStarted)
	assert.Equal(t, StateStopped, iface.State())
}

func TestStopDiscardsBufferedFrames(t *testing.T) {
	iface, dev := initialized(t)

	dev.incoming = [][]byte{make([]byte, 64)}
	iface.Poll()
	assert.True(t, iface.PacketAvailable())

	require.NoError(t, iface.Stop())
	require.NoError(t, iface.Start())
	require.NoError(t, iface.Initialize(0, 0))

	// The frame queued before Stop must be gone.
	_, _, err := iface.Receive(make([]byte, MaxFrameSize))
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestInitializeFromStopped(t *testing.T) {
	dev := newFakeDevice()
	iface, err := New(dev)
	require.NoError(t, err)

	assert.ErrorIs(t, iface.Initialize(0, 0), ErrNotStarted)
	assert.Equal(t, StateStopped, iface.State())
}

func TestInitializeIsRepeatable(t *testing.T) {
	iface, dev := initialized(t)

	require.NoError(t, iface.Initialize(0, 0))
	assert.Equal(t, StateInitialized, iface.State())
	assert.True(t, dev.up)
}

func TestInitializeDeviceFailure(t *testing.T) {
	dev := newFakeDevice()
	iface, err := New(dev)
	require.NoError(t, err)
	require.NoError(t, iface.Start())

	dev.bringUpErr = errors.New("no carrier")
	err = iface.Initialize(0, 0)
	assert.ErrorIs(t, err, ErrDeviceError)
	// Bring-up failure drops the interface all the way back to Stopped.
	assert.Equal(t, StateStopped, iface.State())
}

func TestInitializeExtraHeadroom(t *testing.T) {
	dev := newFakeDevice()
	iface, err := New(dev)
	require.NoError(t, err)
	require.NoError(t, iface.Start())

	assert.ErrorIs(t, iface.Initialize(-1, 0), ErrInvalidParameter)
	assert.ErrorIs(t, iface.Initialize(maxExtraHeadroom+1, 0), ErrOutOfResources)
	// Accepted, even though the device may ignore it.
	assert.NoError(t, iface.Initialize(4096, 4096))
}

func TestResetTransitions(t *testing.T) {
	dev := newFakeDevice()
	iface, err := New(dev)
	require.NoError(t, err)

	assert.ErrorIs(t, iface.Reset(false), ErrNotStarted)
	assert.Equal(t, StateStopped, iface.State())

	require.NoError(t, iface.Start())
	assert.ErrorIs(t, iface.Reset(false), ErrDeviceError)
	assert.Equal(t, StateStarted, iface.State())

	require.NoError(t, iface.Initialize(0, 0))
	require.NoError(t, iface.Reset(true))
	assert.Equal(t, StateInitialized, iface.State())
}

func TestResetReinitializesDevice(t *testing.T) {
	iface, dev := initialized(t)

	haltsBefore := dev.halts
	require.NoError(t, iface.Reset(false))
	assert.Greater(t, dev.halts, haltsBefore)
	assert.True(t, dev.up)
}

func TestShutdownErrors(t *testing.T) {
	dev := newFakeDevice()
	iface, err := New(dev)
	require.NoError(t, err)

	assert.ErrorIs(t, iface.Shutdown(), ErrNotStarted)

	require.NoError(t, iface.Start())
	assert.ErrorIs(t, iface.Shutdown(), ErrDeviceError)
	assert.Equal(t, StateStarted, iface.State())
}

func TestStartClearsSignals(t *testing.T) {
	iface, dev := initialized(t)

	dev.incoming = [][]byte{make([]byte, 64)}
	iface.Poll()
	assert.True(t, iface.PacketAvailable())

	require.NoError(t, iface.Stop())
	require.NoError(t, iface.Start())
	assert.False(t, iface.PacketAvailable())
}

func TestMode(t *testing.T) {
	iface, dev := initialized(t)

	mode := iface.Mode()
	assert.Equal(t, StateInitialized, mode.State)
	assert.Equal(t, dev.hwaddr, mode.HardwareAddr)
	assert.Equal(t, MediaHeaderSize, mode.MediaHeaderSize)
	assert.Equal(t, MaxPacketSize, mode.MaxPacketSize)
}

func TestDHCPAckSnapshot(t *testing.T) {
	iface, _ := initialized(t)

	assert.Nil(t, iface.DHCPAck())

	pkt := []byte{0x02, 0x01, 0x06, 0x00}
	iface.SetDHCPAck(pkt)
	assert.Equal(t, pkt, iface.DHCPAck())

	// Oversized snapshots are truncated, not rejected.
	big := make([]byte, MaxPacketSize+100)
	iface.SetDHCPAck(big)
	assert.Len(t, iface.DHCPAck(), MaxPacketSize)
}

func TestUnsupportedServices(t *testing.T) {
	iface, _ := initialized(t)

	assert.ErrorIs(t, iface.ReceiveFilters(0, 0, false, nil), ErrUnsupported)
	assert.ErrorIs(t, iface.StationAddress(false, nil), ErrUnsupported)
	assert.ErrorIs(t, iface.Statistics(false), ErrUnsupported)
	assert.ErrorIs(t, iface.NVData(true, 0, nil), ErrUnsupported)
}
