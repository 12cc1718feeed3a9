// Package loopback implements a software device that reflects transmitted
// frames back to the receive path. It exists so the interface layer can be
// exercised end to end without hardware.
package loopback

import (
	"fmt"
	"net"
	"sync"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/mitchellh/mapstructure"

	"bootnet.xyz/snet/internal/device"
	"bootnet.xyz/snet/internal/nic"
)

const Name = "loopback"

// Config are the loopback driver options.
type Config struct {
	// HardwareAddr overrides the station MAC address.
	HardwareAddr string `mapstructure:"hwaddr"`
	// QueueSize bounds the pending receive queue. Defaults to 64.
	QueueSize int `mapstructure:"queue_size"`
	// Echo reflects every transmitted frame back into the receive queue.
	// Enabled by default.
	Echo *bool `mapstructure:"echo"`
	// Announce queues a gratuitous ARP for announceIP on bring-up.
	Announce bool `mapstructure:"announce"`
	// AnnounceIP is the IPv4 address advertised by the announcement.
	AnnounceIP string `mapstructure:"announce_ip"`
}

// Loopback is a simulated network device. Frames handed to Send are copied
// into a bounded queue and surface again through PollIncoming.
type Loopback struct {
	mu     sync.Mutex
	up     bool
	hwaddr net.HardwareAddr
	queue  [][]byte
	limit  int
	echo   bool

	announce   bool
	announceIP net.IP
}

func init() {
	device.Register(Name, func(options map[string]any) (nic.Device, error) {
		var cfg Config
		if err := mapstructure.Decode(options, &cfg); err != nil {
			return nil, fmt.Errorf("loopback: decoding options: %w", err)
		}
		return New(cfg)
	})
}

// New builds a loopback device from cfg.
func New(cfg Config) (*Loopback, error) {
	hwaddr := net.HardwareAddr{0x02, 0x00, 0x00, 0x0b, 0x00, 0x01}
	if cfg.HardwareAddr != "" {
		parsed, err := net.ParseMAC(cfg.HardwareAddr)
		if err != nil {
			return nil, fmt.Errorf("loopback: bad hwaddr: %w", err)
		}
		hwaddr = parsed
	}
	limit := cfg.QueueSize
	if limit <= 0 {
		limit = 64
	}
	echo := true
	if cfg.Echo != nil {
		echo = *cfg.Echo
	}
	lb := &Loopback{
		hwaddr:   hwaddr,
		limit:    limit,
		echo:     echo,
		announce: cfg.Announce,
	}
	if cfg.Announce {
		ip := net.ParseIP(cfg.AnnounceIP)
		if ip == nil || ip.To4() == nil {
			return nil, fmt.Errorf("loopback: announce needs an IPv4 announce_ip, got %q", cfg.AnnounceIP)
		}
		lb.announceIP = ip.To4()
	}
	return lb, nil
}

// BringUp readies the device. When announcements are enabled a gratuitous
// ARP is queued so the first poll after initialization sees traffic.
func (l *Loopback) BringUp() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.up = true
	if l.announce {
		frame, err := l.announceFrame()
		if err != nil {
			return fmt.Errorf("loopback: building announcement: %w", err)
		}
		l.enqueueLocked(frame)
	}
	return nil
}

// Halt takes the device down and discards pending frames.
func (l *Loopback) Halt() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.up = false
	l.queue = nil
}

// Send accepts one frame. When echo is enabled the frame is copied into the
// receive queue.
func (l *Loopback) Send(frame []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.up {
		return fmt.Errorf("loopback: device is down")
	}
	if l.echo {
		l.enqueueLocked(append([]byte{}, frame...))
	}
	return nil
}

// PollIncoming drains the queue through deliver. While the device is down
// the queue is left untouched.
func (l *Loopback) PollIncoming(deliver func(frame []byte)) error {
	l.mu.Lock()
	if !l.up {
		l.mu.Unlock()
		return fmt.Errorf("loopback: device is down")
	}
	pending := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, frame := range pending {
		deliver(frame)
	}
	return nil
}

// HardwareAddr returns the station MAC address.
func (l *Loopback) HardwareAddr() net.HardwareAddr {
	return l.hwaddr
}

// Inject places a frame on the receive queue as if it arrived from the
// wire.
func (l *Loopback) Inject(frame []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enqueueLocked(append([]byte{}, frame...))
}

func (l *Loopback) enqueueLocked(frame []byte) {
	if len(l.queue) >= l.limit {
		return
	}
	l.queue = append(l.queue, frame)
}

// announceFrame builds a gratuitous ARP request for the announce address.
func (l *Loopback) announceFrame() ([]byte, error) {
	eth := &layers.Ethernet{
		SrcMAC:       l.hwaddr,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   l.hwaddr,
		SourceProtAddress: l.announceIP,
		DstHwAddress:      make([]byte, 6),
		DstProtAddress:    l.announceIP,
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, arp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
