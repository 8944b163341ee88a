package usb

import (
	"fmt"
	"regexp"

	"usbpass/logger"
)

var (
	physicalNamePattern = regexp.MustCompile(`^usb_[0-9_]+$`)
	// linux root and external hubs are named usb_usb<n>
	hubNamePattern = regexp.MustCompile(`^usb_usb[0-9_]*$`)
)

const (
	intelVendorID       = 0x8087
	intelHubProductBase = 0x8000
)

// IsPhysicalDeviceName reports whether a node device name denotes a real USB
// device and not a hub.
func IsPhysicalDeviceName(name string) bool {
	return physicalNamePattern.MatchString(name) && !hubNamePattern.MatchString(name)
}

// IsPlatformHub reports whether id is one of the chipset's internal Intel hubs.
func IsPlatformHub(id DeviceIdentity) bool {
	return id.Vendor == intelVendorID && id.Product > intelHubProductBase
}

// BuildHostInventory lists the host USB node devices and keeps the physical,
// non-hub ones. Devices whose name or description cannot be read are skipped.
func BuildHostInventory(s Session) (HostInventory, error) {
	nodeDevices, err := s.ListHostUSBNodeDevices()
	if err != nil {
		return nil, fmt.Errorf("list host usb devices: %w", err)
	}

	inventory := make(HostInventory, len(nodeDevices))
	for _, nodeDev := range nodeDevices {
		name, err := nodeDev.Name()
		if err != nil {
			logger.Warn("skipping node device without name", "error", err)
			continue
		}
		if !IsPhysicalDeviceName(name) {
			logger.Debug("skipping usb hub", "name", name)
			continue
		}

		xmlDesc, err := nodeDev.Description()
		if err != nil {
			logger.Warn("skipping node device", "name", name, "error", err)
			continue
		}

		device, err := ParseHostDevice(xmlDesc)
		if err != nil {
			logger.Warn("skipping node device", "name", name, "error", err)
			continue
		}
		if IsPlatformHub(device.Identity) {
			logger.Debug("skipping platform hub", "name", name, "id", device.Identity.String())
			continue
		}
		inventory[device.Identity] = device.Description
	}
	return inventory, nil
}
