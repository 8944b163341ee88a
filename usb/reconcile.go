package usb

// DeviceStatus is one host device and whether the guest currently has it.
type DeviceStatus struct {
	Identity    DeviceIdentity
	Description DeviceDescription
	Attached    bool
}

// Reconcile marks every inventory device as attached or available, in identity order.
func Reconcile(inventory HostInventory, attached AttachedSet) []DeviceStatus {
	out := make([]DeviceStatus, 0, len(inventory))
	for _, id := range inventory.Identities() {
		out = append(out, DeviceStatus{
			Identity:    id,
			Description: inventory[id],
			Attached:    attached.Contains(id),
		})
	}
	return out
}
