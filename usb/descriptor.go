package usb

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"usbpass/logger"
)

// ParseError reports a device description that could not be read.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// HostDevice is a parsed host node device.
type HostDevice struct {
	Name        string
	Identity    DeviceIdentity
	Description DeviceDescription
}

// ParseHostDevice reads the identity and description of a usb_device node device.
func ParseHostDevice(xmlDesc string) (HostDevice, error) {
	var node nodeDeviceXML
	if err := xml.Unmarshal([]byte(xmlDesc), &node); err != nil {
		return HostDevice{}, &ParseError{Source: "node device xml", Err: err}
	}

	id, err := identityFromXMLFields(node.Capability.Vendor.ID, node.Capability.Product.ID)
	if err != nil {
		return HostDevice{}, &ParseError{Source: "node device " + strings.TrimSpace(node.Name), Err: err}
	}

	return HostDevice{
		Name:     strings.TrimSpace(node.Name),
		Identity: id,
		Description: DeviceDescription{
			VendorName:  strings.TrimSpace(node.Capability.Vendor.Text),
			ProductName: strings.TrimSpace(node.Capability.Product.Text),
		},
	}, nil
}

// ParseGuestDevices returns the usb hostdev identities of a domain description.
// Only the run of hostdev elements starting at the first one is read; a hostdev
// that follows any other device element is not reached.
func ParseGuestDevices(xmlDesc string) ([]DeviceIdentity, error) {
	var dom domainXML
	if err := xml.Unmarshal([]byte(xmlDesc), &dom); err != nil {
		return nil, &ParseError{Source: "domain xml", Err: err}
	}
	if dom.XMLName.Local != "domain" {
		return []DeviceIdentity{}, nil
	}

	children := dom.Devices.Children
	start := 0
	for start < len(children) && children[start].XMLName.Local != "hostdev" {
		start++
	}

	ids := make([]DeviceIdentity, 0)
	for _, dev := range children[start:] {
		if dev.XMLName.Local != "hostdev" {
			break
		}
		if strings.TrimSpace(dev.Type) != "usb" {
			continue
		}
		id, err := identityFromXMLFields(dev.Source.Vendor.ID, dev.Source.Product.ID)
		if err != nil {
			logger.Warn("skipping usb hostdev", "error", err)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func identityFromXMLFields(vendor, product string) (DeviceIdentity, error) {
	v, err := parseXMLID(vendor)
	if err != nil {
		return DeviceIdentity{}, fmt.Errorf("invalid vendor id %q: %w", vendor, err)
	}
	p, err := parseXMLID(product)
	if err != nil {
		return DeviceIdentity{}, fmt.Errorf("invalid product id %q: %w", product, err)
	}
	return DeviceIdentity{Vendor: v, Product: p}, nil
}

// parseXMLID reads 0x-prefixed hex or plain decimal, as libvirt writes either.
func parseXMLID(raw string) (uint16, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	var (
		v   uint64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if v > 0xffff {
		return 0, ErrIdentityRange
	}
	return uint16(v), nil
}

type nodeDeviceXML struct {
	Name       string `xml:"name"`
	Capability struct {
		Type    string     `xml:"type,attr"`
		Vendor  textWithID `xml:"vendor"`
		Product textWithID `xml:"product"`
	} `xml:"capability"`
}

type textWithID struct {
	ID   string `xml:"id,attr"`
	Text string `xml:",chardata"`
}

type domainXML struct {
	XMLName xml.Name
	Devices struct {
		Children []deviceXML `xml:",any"`
	} `xml:"devices"`
}

// deviceXML is any child of <devices>; only hostdev fills the remaining fields.
type deviceXML struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Source  struct {
		Vendor struct {
			ID string `xml:"id,attr"`
		} `xml:"vendor"`
		Product struct {
			ID string `xml:"id,attr"`
		} `xml:"product"`
	} `xml:"source"`
}
