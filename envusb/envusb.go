package envusb

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultGuest = "win10"
	defaultURI   = "qemu:///system"
)

var (
	GuestName  string
	LibvirtURI string
	Mode       string
	Output     string
)

// Setup loads .env when present and reads the environment. Every value has a default.
func Setup() error {
	_ = godotenv.Load(".env")

	GuestName = strings.TrimSpace(os.Getenv("USBPASS_GUEST"))
	LibvirtURI = strings.TrimSpace(os.Getenv("LIBVIRT_URI"))
	Mode = strings.TrimSpace(os.Getenv("MODE"))
	Output = strings.ToLower(strings.TrimSpace(os.Getenv("USBPASS_OUTPUT")))

	if GuestName == "" {
		GuestName = defaultGuest
	}
	if LibvirtURI == "" {
		LibvirtURI = defaultURI
	}
	if Mode != "dev" {
		Mode = "prod"
	}
	if Output == "" {
		Output = "text"
	}
	return nil
}
