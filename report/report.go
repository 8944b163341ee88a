package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"usbpass/usb"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Marker is the status prefix of a device line: red " + " when attached, green
// " - " when available.
func Marker(attached, colored bool) string {
	c := color.New(color.FgGreen)
	mark := " - "
	if attached {
		c = color.New(color.FgRed)
		mark = " + "
	}
	if colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(mark)
}

// Legend explains the two markers.
func Legend(colored bool) []string {
	return []string{
		Marker(true, colored) + ": Device already attached to domain",
		Marker(false, colored) + ": Device not attached to domain",
	}
}

// Line renders one device, e.g. " - 0x046d:0xc52b :: Logitech, Receiver".
func Line(st usb.DeviceStatus, colored bool) string {
	return fmt.Sprintf("%s%s :: %s, %s",
		Marker(st.Attached, colored),
		st.Identity,
		st.Description.VendorName,
		st.Description.ProductName,
	)
}

// MutationLine is the status text of an attach or detach.
func MutationLine(op usb.Operation, id usb.DeviceIdentity, err error) string {
	if err != nil {
		return fmt.Sprintf("%s %s: failed: %v", op, id, err)
	}
	return fmt.Sprintf("%s %s: ok", op, id)
}

type document struct {
	Guest   string  `json:"guest" yaml:"guest"`
	Devices []entry `json:"devices" yaml:"devices"`
}

type entry struct {
	ID        string `json:"id" yaml:"id"`
	VendorID  string `json:"vendor_id" yaml:"vendor_id"`
	ProductID string `json:"product_id" yaml:"product_id"`
	Vendor    string `json:"vendor" yaml:"vendor"`
	Product   string `json:"product" yaml:"product"`
	Status    string `json:"status" yaml:"status"`
}

func status(attached bool) string {
	if attached {
		return "attached"
	}
	return "available"
}

func toDocument(guest string, devices []usb.DeviceStatus) document {
	doc := document{Guest: guest, Devices: make([]entry, 0, len(devices))}
	for _, st := range devices {
		doc.Devices = append(doc.Devices, entry{
			ID:        st.Identity.String(),
			VendorID:  fmt.Sprintf("0x%04x", st.Identity.Vendor),
			ProductID: fmt.Sprintf("0x%04x", st.Identity.Product),
			Vendor:    st.Description.VendorName,
			Product:   st.Description.ProductName,
			Status:    status(st.Attached),
		})
	}
	return doc
}

// ValidFormat reports whether format is known to Render.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Render writes the reconciliation of guest in the given format.
func Render(w io.Writer, format, guest string, devices []usb.DeviceStatus, colored bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatText, "":
		return renderText(w, devices, colored)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toDocument(guest, devices))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toDocument(guest, devices)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(w io.Writer, devices []usb.DeviceStatus, colored bool) error {
	var b strings.Builder
	for _, l := range Legend(colored) {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, st := range devices {
		b.WriteString(Line(st, colored))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
