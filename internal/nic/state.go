package nic

// State is the lifecycle state of the network interface.
//
// The legal transitions are:
//
//	Start():      Stopped     -> Started
//	Initialize(): Started     -> Initialized
//	Shutdown():   Initialized -> Started
//	Stop():       Started     -> Stopped
//	Reset():      Initialized -> Initialized
type State uint8

const (
	// StateStopped is the state after construction and after Stop.
	StateStopped State = iota
	// StateStarted means the interface is claimed but the device is down.
	StateStarted
	// StateInitialized means the device is up and I/O is permitted.
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarted:
		return "started"
	case StateInitialized:
		return "initialized"
	}
	return "unknown"
}
