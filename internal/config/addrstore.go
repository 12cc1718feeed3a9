package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// InterfaceAddr is the persistent IPv4 addressing of one interface index.
// Absent entries decode as nil fields.
type InterfaceAddr struct {
	IP      net.IP
	Netmask net.IP
	Gateway net.IP
}

// AddressStore persists interface addressing in a key-value configuration
// file. Entries are keyed "ipaddr", "netmask" and "gatewayip", suffixed
// with the interface index for indexes above zero.
type AddressStore struct {
	v    *viper.Viper
	path string
}

// OpenAddressStore opens (or creates) the store file at path.
func OpenAddressStore(path string) (*AddressStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read address store %s: %w", path, err)
		}
	}
	return &AddressStore{v: v, path: path}, nil
}

func addrKeys(index int) (ip, mask, gw string, err error) {
	if index < 0 || index > 99 {
		return "", "", "", fmt.Errorf("interface index %d out of range", index)
	}
	if index == 0 {
		return "ipaddr", "netmask", "gatewayip", nil
	}
	return fmt.Sprintf("ipaddr%d", index),
		fmt.Sprintf("netmask%d", index),
		fmt.Sprintf("gatewayip%d", index), nil
}

// Get reads the addressing for the given interface index. Keys that were
// never set come back as nil fields.
func (s *AddressStore) Get(index int) (InterfaceAddr, error) {
	ipKey, maskKey, gwKey, err := addrKeys(index)
	if err != nil {
		return InterfaceAddr{}, err
	}
	return InterfaceAddr{
		IP:      parseStored(s.v.GetString(ipKey)),
		Netmask: parseStored(s.v.GetString(maskKey)),
		Gateway: parseStored(s.v.GetString(gwKey)),
	}, nil
}

// Set writes the addressing for the given interface index and persists the
// store. Nil fields leave the corresponding entry untouched.
func (s *AddressStore) Set(index int, addr InterfaceAddr) error {
	ipKey, maskKey, gwKey, err := addrKeys(index)
	if err != nil {
		return err
	}
	if addr.IP != nil {
		s.v.Set(ipKey, addr.IP.String())
	}
	if addr.Netmask != nil {
		s.v.Set(maskKey, addr.Netmask.String())
	}
	if addr.Gateway != nil {
		s.v.Set(gwKey, addr.Gateway.String())
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to persist address store: %w", err)
	}
	return nil
}

func parseStored(s string) net.IP {
	if s == "" {
		return nil
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}
	return ip.To4()
}
