package loopback

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootnet.xyz/snet/internal/device"
)

func collect(t *testing.T, lb *Loopback) [][]byte {
	t.Helper()
	var frames [][]byte
	require.NoError(t, lb.PollIncoming(func(frame []byte) {
		frames = append(frames, frame)
	}))
	return frames
}

func TestEchoRoundTrip(t *testing.T) {
	lb, err := New(Config{})
	require.NoError(t, err)
	require.NoError(t, lb.BringUp())

	frame := make([]byte, 60)
	copy(frame, lb.HardwareAddr())
	require.NoError(t, lb.Send(frame))

	frames := collect(t, lb)
	require.Len(t, frames, 1)
	assert.Equal(t, frame, frames[0])

	// The queue drained; nothing left on the next poll.
	assert.Empty(t, collect(t, lb))
}

func TestSendWhileDown(t *testing.T) {
	lb, err := New(Config{})
	require.NoError(t, err)

	assert.Error(t, lb.Send(make([]byte, 60)))
}

func TestHaltDiscardsQueue(t *testing.T) {
	lb, err := New(Config{})
	require.NoError(t, err)
	require.NoError(t, lb.BringUp())

	lb.Inject(make([]byte, 60))
	lb.Halt()
	require.NoError(t, lb.BringUp())
	assert.Empty(t, collect(t, lb))
}

func TestPollWhileDownLeavesQueueIntact(t *testing.T) {
	lb, err := New(Config{})
	require.NoError(t, err)

	lb.Inject(make([]byte, 60))
	assert.Error(t, lb.PollIncoming(func([]byte) {
		t.Fatal("delivered a frame while down")
	}))

	// The frame is still there once the device comes up.
	require.NoError(t, lb.BringUp())
	assert.Len(t, collect(t, lb), 1)
}

func TestQueueBound(t *testing.T) {
	lb, err := New(Config{QueueSize: 2})
	require.NoError(t, err)
	require.NoError(t, lb.BringUp())

	for i := 0; i < 5; i++ {
		lb.Inject([]byte{byte(i), 0, 0, 0})
	}
	assert.Len(t, collect(t, lb), 2)
}

func TestHardwareAddrOverride(t *testing.T) {
	lb, err := New(Config{HardwareAddr: "02:00:00:0b:00:42"})
	require.NoError(t, err)
	assert.Equal(t, net.HardwareAddr{0x02, 0x00, 0x00, 0x0b, 0x00, 0x42}, lb.HardwareAddr())

	_, err = New(Config{HardwareAddr: "nonsense"})
	assert.Error(t, err)
}

func TestAnnounceQueuesGratuitousARP(t *testing.T) {
	lb, err := New(Config{Announce: true, AnnounceIP: "192.168.1.10"})
	require.NoError(t, err)
	require.NoError(t, lb.BringUp())

	frames := collect(t, lb)
	require.Len(t, frames, 1)

	pkt := gopacket.NewPacket(frames[0], layers.LayerTypeEthernet, gopacket.Default)
	arpLayer := pkt.Layer(layers.LayerTypeARP)
	require.NotNil(t, arpLayer)
	arp := arpLayer.(*layers.ARP)
	assert.Equal(t, net.IP(arp.SourceProtAddress), net.IPv4(192, 168, 1, 10).To4())
	assert.Equal(t, []byte(lb.HardwareAddr()), arp.SourceHwAddress)
}

func TestAnnounceRequiresIPv4(t *testing.T) {
	_, err := New(Config{Announce: true})
	assert.Error(t, err)
	_, err = New(Config{Announce: true, AnnounceIP: "ff02::1"})
	assert.Error(t, err)
}

func TestFactoryRegistration(t *testing.T) {
	dev, err := device.New(Name, map[string]any{
		"hwaddr":     "02:00:00:0b:00:09",
		"queue_size": 8,
	})
	require.NoError(t, err)
	assert.Equal(t, "02:00:00:0b:00:09", dev.HardwareAddr().String())

	_, err = device.New("no-such-driver", nil)
	assert.Error(t, err)
}

func TestFactoryRejectsBadOptions(t *testing.T) {
	_, err := device.New(Name, map[string]any{"queue_size": "not a number"})
	assert.Error(t, err)
}
