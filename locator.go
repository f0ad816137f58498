package boardctl

import (
	"fmt"
	"strings"
)

// [pyftdi URL scheme] ftdi://<vendor>:<product>[:<serial>]/<interface>
const (
	locatorScheme    = "ftdi://"
	locatorVendor    = "ftdi"
	locatorProduct   = "2232h"
	locatorInterface = "1"
)

// Locator selects the board to open: any supported device, or the one
// reporting a specific serial number.
type Locator struct {
	Serial string
}

// Any selects the first device matching a supported signature.
func Any() Locator { return Locator{} }

// BySerial selects the device whose EEPROM reports serial.
func BySerial(serial string) Locator { return Locator{Serial: serial} }

func (l Locator) IsAny() bool { return l.Serial == "" }

// String renders the connection identifier, e.g. ftdi://ftdi:2232h:TPC1234/1.
func (l Locator) String() string {
	if l.IsAny() {
		return fmt.Sprintf("%s%s:%s/%s", locatorScheme, locatorVendor, locatorProduct, locatorInterface)
	}
	return fmt.Sprintf("%s%s:%s:%s/%s", locatorScheme, locatorVendor, locatorProduct, l.Serial, locatorInterface)
}

// ParseLocator is the inverse of Locator.String.
func ParseLocator(s string) (Locator, error) {
	rest, ok := strings.CutPrefix(s, locatorScheme)
	if !ok {
		return Locator{}, fmt.Errorf("invalid locator %q: expected %s scheme", s, locatorScheme)
	}
	path, iface, ok := strings.Cut(rest, "/")
	if !ok || iface != locatorInterface {
		return Locator{}, fmt.Errorf("invalid locator %q: expected interface /%s", s, locatorInterface)
	}

	parts := strings.Split(path, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != locatorVendor || parts[1] != locatorProduct {
		return Locator{}, fmt.Errorf("invalid locator %q: expected %s:%s[:serial]", s, locatorVendor, locatorProduct)
	}
	if len(parts) == 2 {
		return Any(), nil
	}
	if parts[2] == "" {
		return Locator{}, fmt.Errorf("invalid locator %q: empty serial", s)
	}
	return BySerial(parts[2]), nil
}
