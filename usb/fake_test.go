package usb

import (
	"errors"
	"fmt"
	"strings"
)

type fakeNodeDevice struct {
	name    string
	xmlDesc string
	nameErr error
	descErr error
}

func (d *fakeNodeDevice) Name() (string, error)        { return d.name, d.nameErr }
func (d *fakeNodeDevice) Description() (string, error) { return d.xmlDesc, d.descErr }

// fakeGuest keeps its <devices> children as raw elements and applies live
// attach/detach the way libvirt does, grouping hostdevs together.
type fakeGuest struct {
	name      string
	devices   []string
	descErr   error
	attachErr error
	detachErr error
	calls     []string
}

func (g *fakeGuest) Name() string { return g.name }

func (g *fakeGuest) LiveDescription() (string, error) {
	if g.descErr != nil {
		return "", g.descErr
	}
	return "<domain type='kvm'><name>" + g.name + "</name><devices>" +
		strings.Join(g.devices, "") + "</devices></domain>", nil
}

func (g *fakeGuest) AttachDeviceLive(xmlDesc string) error {
	g.calls = append(g.calls, "attach "+xmlDesc)
	if g.attachErr != nil {
		return g.attachErr
	}
	for _, d := range g.devices {
		if d == xmlDesc {
			return errors.New("device already attached")
		}
	}
	at := len(g.devices)
	for i, d := range g.devices {
		if strings.HasPrefix(d, "<hostdev") {
			at = i
			for at < len(g.devices) && strings.HasPrefix(g.devices[at], "<hostdev") {
				at++
			}
			break
		}
	}
	g.devices = append(g.devices[:at], append([]string{xmlDesc}, g.devices[at:]...)...)
	return nil
}

func (g *fakeGuest) DetachDeviceLive(xmlDesc string) error {
	g.calls = append(g.calls, "detach "+xmlDesc)
	if g.detachErr != nil {
		return g.detachErr
	}
	for i, d := range g.devices {
		if d == xmlDesc {
			g.devices = append(g.devices[:i], g.devices[i+1:]...)
			return nil
		}
	}
	return errors.New("device not found")
}

type fakeSession struct {
	guests    map[string]*fakeGuest
	nodes     []NodeDevice
	listErr   error
	closed    int
	listCalls int
}

func (s *fakeSession) FindGuest(name string) (Guest, error) {
	g, ok := s.guests[name]
	if !ok {
		return nil, fmt.Errorf("lookup vm %s: %w", name, ErrGuestNotFound)
	}
	return g, nil
}

func (s *fakeSession) ListHostUSBNodeDevices() ([]NodeDevice, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.nodes, nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

func usbNodeXML(name, vendorID, vendor, productID, product string) string {
	return fmt.Sprintf(`<device>
  <name>%s</name>
  <path>/sys/devices/pci0000:00/0000:00:14.0/usb1/1-4</path>
  <parent>usb_usb1</parent>
  <driver><name>usb</name></driver>
  <capability type='usb_device'>
    <bus>1</bus>
    <device>3</device>
    <product id='%s'>%s</product>
    <vendor id='%s'>%s</vendor>
  </capability>
</device>`, name, productID, product, vendorID, vendor)
}

func usbHostdevXML(vendorID, productID string) string {
	return fmt.Sprintf(`<hostdev mode='subsystem' type='usb' managed='yes'><source><vendor id='%s'/><product id='%s'/></source><alias name='hostdev0'/></hostdev>`, vendorID, productID)
}

func newFakeHost() *fakeSession {
	return &fakeSession{
		guests: map[string]*fakeGuest{
			"win10": {
				name: "win10",
				devices: []string{
					`<emulator>/usr/bin/qemu-system-x86_64</emulator>`,
					`<disk type='file' device='disk'><source file='/var/lib/libvirt/images/win10.qcow2'/></disk>`,
					usbHostdevXML("0x046d", "0xc52b"),
					`<memballoon model='virtio'/>`,
				},
			},
		},
		nodes: []NodeDevice{
			&fakeNodeDevice{name: "usb_usb1", xmlDesc: usbNodeXML("usb_usb1", "0x1d6b", "Linux Foundation", "0x0002", "2.0 root hub")},
			&fakeNodeDevice{name: "usb_1_4", xmlDesc: usbNodeXML("usb_1_4", "0x046d", "Logitech, Inc.", "0xc52b", "Unifying Receiver")},
			&fakeNodeDevice{name: "usb_1_2", xmlDesc: usbNodeXML("usb_1_2", "0x0781", "SanDisk Corp.", "0x5581", "Ultra")},
			&fakeNodeDevice{name: "usb_1_9", xmlDesc: usbNodeXML("usb_1_9", "0x8087", "Intel Corp.", "0x8008", "Integrated Rate Matching Hub")},
			&fakeNodeDevice{name: "usb_1_7", descErr: errors.New("node device vanished")},
		},
	}
}
