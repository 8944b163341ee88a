package virsh

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	libvirt "libvirt.org/go/libvirt"

	"usbpass/usb"
)

// Session is a libvirt connection together with the domain and node device
// handles looked up through it. Close frees all of them.
type Session struct {
	uri     string
	conn    *libvirt.Connect
	domains []*libvirt.Domain
	devices []libvirt.NodeDevice
}

// Open connects to uri, read-only when no mutation will be issued.
func Open(uri string, readOnly bool) (*Session, error) {
	var (
		conn *libvirt.Connect
		err  error
	)
	if readOnly {
		conn, err = libvirt.NewConnectReadOnly(uri)
	} else {
		conn, err = libvirt.NewConnect(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w: %w", uri, usb.ErrUnreachable, err)
	}
	return &Session{uri: uri, conn: conn}, nil
}

// Opener adapts Open to usb.Opener.
func Opener(uri string) usb.Opener {
	return func(readOnly bool) (usb.Session, error) {
		s, err := Open(uri, readOnly)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func (s *Session) FindGuest(name string) (usb.Guest, error) {
	dom, err := s.conn.LookupDomainByName(name)
	if err != nil {
		return nil, lookupError(name, err)
	}
	s.domains = append(s.domains, dom)

	if _, err := dom.GetInfo(); err != nil {
		return nil, fmt.Errorf("get info for vm %s: %w", name, err)
	}

	guestName := name
	if actual, err := dom.GetName(); err == nil {
		if actual = strings.TrimSpace(actual); actual != "" {
			guestName = actual
		}
	}
	return &guest{name: guestName, dom: dom}, nil
}

func (s *Session) ListHostUSBNodeDevices() ([]usb.NodeDevice, error) {
	nodeDevices, err := s.conn.ListAllNodeDevices(libvirt.CONNECT_LIST_NODE_DEVICES_CAP_USB_DEV)
	if err != nil {
		return nil, fmt.Errorf("list node devices on %s: %w", s.uri, err)
	}
	s.devices = append(s.devices, nodeDevices...)

	out := make([]usb.NodeDevice, 0, len(nodeDevices))
	for i := range nodeDevices {
		out = append(out, &nodeDevice{dev: &nodeDevices[i]})
	}
	return out, nil
}

// Close frees every handle and closes the connection. It is safe to call twice.
func (s *Session) Close() error {
	var err error
	for _, dom := range s.domains {
		err = multierr.Append(err, dom.Free())
	}
	s.domains = nil
	for i := range s.devices {
		err = multierr.Append(err, s.devices[i].Free())
	}
	s.devices = nil
	if s.conn != nil {
		if _, cerr := s.conn.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close %s: %w", s.uri, cerr))
		}
		s.conn = nil
	}
	return err
}

func lookupError(name string, err error) error {
	var lverr libvirt.Error
	if errors.As(err, &lverr) && lverr.Code == libvirt.ERR_NO_DOMAIN {
		return fmt.Errorf("lookup vm %s: %w", name, usb.ErrGuestNotFound)
	}
	return fmt.Errorf("lookup vm %s: %w", name, err)
}

type guest struct {
	name string
	dom  *libvirt.Domain
}

func (g *guest) Name() string { return g.name }

func (g *guest) LiveDescription() (string, error) {
	return g.dom.GetXMLDesc(0)
}

func (g *guest) AttachDeviceLive(xmlDesc string) error {
	return g.dom.AttachDeviceFlags(xmlDesc, libvirt.DOMAIN_DEVICE_MODIFY_LIVE)
}

func (g *guest) DetachDeviceLive(xmlDesc string) error {
	return g.dom.DetachDeviceFlags(xmlDesc, libvirt.DOMAIN_DEVICE_MODIFY_LIVE)
}

type nodeDevice struct {
	dev *libvirt.NodeDevice
}

func (n *nodeDevice) Name() (string, error) {
	return n.dev.GetName()
}

func (n *nodeDevice) Description() (string, error) {
	return n.dev.GetXMLDesc(0)
}
