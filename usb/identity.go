package usb

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrIdentityRange is returned for vendor or product ids outside 16 bits.
	ErrIdentityRange = errors.New("usb id out of range")
)

// DeviceIdentity is the vendor/product pair used to match host and guest devices.
// Several physical units with the same pair are indistinguishable.
type DeviceIdentity struct {
	Vendor  uint16
	Product uint16
}

// NewIdentity builds an identity from wider integers, rejecting values above 0xffff.
func NewIdentity(vendor, product uint64) (DeviceIdentity, error) {
	if vendor > 0xffff {
		return DeviceIdentity{}, fmt.Errorf("vendor id 0x%x: %w", vendor, ErrIdentityRange)
	}
	if product > 0xffff {
		return DeviceIdentity{}, fmt.Errorf("product id 0x%x: %w", product, ErrIdentityRange)
	}
	return DeviceIdentity{Vendor: uint16(vendor), Product: uint16(product)}, nil
}

// ParseIdentity accepts hex vendor and product ids, with or without a 0x prefix:
// - 046d c52b
// - 0x046d 0xC52B
func ParseIdentity(vendor, product string) (DeviceIdentity, error) {
	v, err := parseHexID(vendor)
	if err != nil {
		return DeviceIdentity{}, fmt.Errorf("invalid vendor id %q: %w", vendor, err)
	}
	p, err := parseHexID(product)
	if err != nil {
		return DeviceIdentity{}, fmt.Errorf("invalid product id %q: %w", product, err)
	}
	return NewIdentity(v, p)
}

func parseHexID(raw string) (uint64, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, err
	}
	if v > 0xffff {
		return 0, ErrIdentityRange
	}
	return v, nil
}

func (id DeviceIdentity) String() string {
	return fmt.Sprintf("0x%04x:0x%04x", id.Vendor, id.Product)
}

// Less orders by vendor id, then product id.
func (id DeviceIdentity) Less(other DeviceIdentity) bool {
	if id.Vendor != other.Vendor {
		return id.Vendor < other.Vendor
	}
	return id.Product < other.Product
}

// DeviceDescription is informational text taken from the host node device.
type DeviceDescription struct {
	VendorName  string
	ProductName string
}

// HostInventory maps each physical host USB device to its description.
type HostInventory map[DeviceIdentity]DeviceDescription

// Identities returns the inventory keys in ascending order.
func (inv HostInventory) Identities() []DeviceIdentity {
	ids := make([]DeviceIdentity, 0, len(inv))
	for id := range inv {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Less(ids[j])
	})
	return ids
}

// AttachedSet holds the identities hot-plugged into a guest.
type AttachedSet map[DeviceIdentity]struct{}

func (s AttachedSet) Add(id DeviceIdentity) {
	s[id] = struct{}{}
}

func (s AttachedSet) Contains(id DeviceIdentity) bool {
	_, ok := s[id]
	return ok
}
