// Package device provides driver construction for the network interface
// layer. Drivers register themselves by name; configuration arrives as a
// generic map and is decoded into the driver's own config type.
package device

import (
	"fmt"
	"sort"
	"sync"

	"bootnet.xyz/snet/internal/nic"
)

// Constructor builds a driver from its decoded options.
type Constructor func(options map[string]any) (nic.Device, error)

var (
	mu       sync.RWMutex
	registry = make(map[string]Constructor)
)

// Register makes a driver available under name. It is called from driver
// package init functions; registering the same name twice panics.
func Register(name string, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("device: driver %q registered twice", name))
	}
	registry[name] = ctor
}

// New constructs the driver registered under name.
func New(name string, options map[string]any) (nic.Device, error) {
	mu.RLock()
	ctor, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("device: unknown driver %q (registered: %v)", name, Names())
	}
	return ctor(options)
}

// Names lists the registered driver names.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
