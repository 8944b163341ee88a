package usb

import (
	"errors"
	"testing"
)

func TestIsPhysicalDeviceName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "usb_1_4", want: true},
		{name: "usb_3_1_2", want: true},
		{name: "usb_12", want: true},
		{name: "usb_1_4_", want: true},
		{name: "usb_usb1", want: false},
		{name: "usb_usb12_3", want: false},
		{name: "usb_1_4_1_0", want: true},
		{name: "usb_1-4", want: false},
		{name: "usb_", want: false},
		{name: "usb_1_4_1_0_if0", want: false},
		{name: "pci_0000_00_14_0", want: false},
		{name: "xusb_1_4", want: false},
		{name: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPhysicalDeviceName(tt.name); got != tt.want {
				t.Fatalf("unexpected result for %q: got %v want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsPlatformHub(t *testing.T) {
	tests := []struct {
		id   DeviceIdentity
		want bool
	}{
		{id: DeviceIdentity{0x8087, 0x8001}, want: true},
		{id: DeviceIdentity{0x8087, 0x8008}, want: true},
		{id: DeviceIdentity{0x8087, 0xffff}, want: true},
		{id: DeviceIdentity{0x8087, 0x8000}, want: false},
		{id: DeviceIdentity{0x8087, 0x0024}, want: false},
		{id: DeviceIdentity{0x8086, 0x8008}, want: false},
		{id: DeviceIdentity{0x046d, 0xc52b}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			if got := IsPlatformHub(tt.id); got != tt.want {
				t.Fatalf("unexpected result for %s: got %v want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestBuildHostInventory(t *testing.T) {
	s := newFakeHost()
	s.nodes = append(s.nodes,
		&fakeNodeDevice{name: "usb_2_1", xmlDesc: `<device><capability`},
		&fakeNodeDevice{nameErr: errors.New("no name")},
	)

	inv, err := BuildHostInventory(s)
	if err != nil {
		t.Fatalf("BuildHostInventory failed: %v", err)
	}
	if len(inv) != 2 {
		t.Fatalf("unexpected inventory size: got %d want 2 (%v)", len(inv), inv)
	}

	logi := DeviceIdentity{Vendor: 0x046d, Product: 0xc52b}
	desc, ok := inv[logi]
	if !ok {
		t.Fatalf("expected %s in inventory", logi)
	}
	if desc.VendorName != "Logitech, Inc." || desc.ProductName != "Unifying Receiver" {
		t.Fatalf("unexpected description: %+v", desc)
	}
	if _, ok := inv[DeviceIdentity{Vendor: 0x0781, Product: 0x5581}]; !ok {
		t.Fatalf("expected sandisk in inventory")
	}
	if _, ok := inv[DeviceIdentity{Vendor: 0x1d6b, Product: 0x0002}]; ok {
		t.Fatalf("root hub must be filtered by name")
	}
	if _, ok := inv[DeviceIdentity{Vendor: 0x8087, Product: 0x8008}]; ok {
		t.Fatalf("intel hub must be filtered by identity")
	}
}

func TestBuildHostInventoryDuplicateIdentity(t *testing.T) {
	s := &fakeSession{nodes: []NodeDevice{
		&fakeNodeDevice{name: "usb_1_2", xmlDesc: usbNodeXML("usb_1_2", "0x0781", "SanDisk", "0x5581", "first")},
		&fakeNodeDevice{name: "usb_1_3", xmlDesc: usbNodeXML("usb_1_3", "0x0781", "SanDisk", "0x5581", "second")},
	}}

	inv, err := BuildHostInventory(s)
	if err != nil {
		t.Fatalf("BuildHostInventory failed: %v", err)
	}
	if len(inv) != 1 {
		t.Fatalf("unexpected inventory size: got %d want 1", len(inv))
	}
	if got := inv[DeviceIdentity{0x0781, 0x5581}].ProductName; got != "second" {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestBuildHostInventoryListFailure(t *testing.T) {
	cause := errors.New("connection reset")
	s := &fakeSession{listErr: cause}
	if _, err := BuildHostInventory(s); !errors.Is(err, cause) {
		t.Fatalf("expected list failure to propagate, got %v", err)
	}
}
