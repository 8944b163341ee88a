package usb

import "fmt"

// Operation is a live hostdev mutation.
type Operation int

const (
	OpAttach Operation = iota
	OpDetach
)

func (op Operation) String() string {
	if op == OpDetach {
		return "detach"
	}
	return "attach"
}

// HostDevXML builds the managed usb hostdev fragment for id.
func HostDevXML(id DeviceIdentity) string {
	return fmt.Sprintf(
		`<hostdev mode="subsystem" type="usb" managed="yes"><source><vendor id="0x%04x" /><product id="0x%04x" /></source></hostdev>`,
		id.Vendor,
		id.Product,
	)
}

// Attach hot-plugs the host device id into the running guest.
func Attach(g Guest, id DeviceIdentity) error {
	if err := g.AttachDeviceLive(HostDevXML(id)); err != nil {
		return fmt.Errorf("attach usb %s to vm %s: %w: %w", id, g.Name(), ErrMutation, err)
	}
	return nil
}

// Detach unplugs the host device id from the running guest.
func Detach(g Guest, id DeviceIdentity) error {
	if err := g.DetachDeviceLive(HostDevXML(id)); err != nil {
		return fmt.Errorf("detach usb %s from vm %s: %w: %w", id, g.Name(), ErrMutation, err)
	}
	return nil
}

// Apply runs op for id against g.
func Apply(g Guest, op Operation, id DeviceIdentity) error {
	if op == OpDetach {
		return Detach(g, id)
	}
	return Attach(g, id)
}
