package usb

import (
	"fmt"

	"usbpass/logger"
)

// ExtractAttached returns the USB devices hot-plugged into g. Failing to read the
// live description is an error; a description that does not parse yields an
// empty set.
func ExtractAttached(g Guest) (AttachedSet, error) {
	xmlDesc, err := g.LiveDescription()
	if err != nil {
		return nil, fmt.Errorf("get vm xml %s: %w", g.Name(), err)
	}

	attached := make(AttachedSet)
	ids, err := ParseGuestDevices(xmlDesc)
	if err != nil {
		logger.Warn("guest description unreadable, assuming no usb hostdevs", "vm", g.Name(), "error", err)
		return attached, nil
	}
	for _, id := range ids {
		logger.Debug("usb hostdev attached", "vm", g.Name(), "id", id.String())
		attached.Add(id)
	}
	return attached, nil
}
