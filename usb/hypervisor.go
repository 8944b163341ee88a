package usb

import "errors"

var (
	// ErrUnreachable means no session to the virtualization service could be opened.
	ErrUnreachable = errors.New("hypervisor unreachable")
	// ErrGuestNotFound means the named guest does not exist on the connection.
	ErrGuestNotFound = errors.New("guest not found")
	// ErrMutation wraps a failed live attach or detach request.
	ErrMutation = errors.New("device mutation failed")
)

// Opener opens one session to the virtualization service.
type Opener func(readOnly bool) (Session, error)

// Session is a connection to the virtualization service. Close releases the
// connection and every handle obtained from it.
type Session interface {
	FindGuest(name string) (Guest, error)
	ListHostUSBNodeDevices() ([]NodeDevice, error)
	Close() error
}

// Guest is a running virtual machine.
type Guest interface {
	Name() string
	// LiveDescription returns the runtime domain XML.
	LiveDescription() (string, error)
	AttachDeviceLive(xmlDesc string) error
	DetachDeviceLive(xmlDesc string) error
}

// NodeDevice is a host USB node device.
type NodeDevice interface {
	Name() (string, error)
	Description() (string, error)
}
