package boardctl

import (
	"encoding/hex"
	"fmt"
	"io"
	"slices"

	"periph.io/x/host/v3/ftdi"
)

// EEPROM accesses the bridge's configuration EEPROM.
type EEPROM struct {
	ft ftdiDev
}

// Read returns the current EEPROM image.
func (e *EEPROM) Read() (*Image, error) {
	ee := ftdi.EEPROM{}
	if err := e.ft.EEPROM(&ee); err != nil {
		return nil, protocolErr("read EEPROM", err)
	}
	return NewImage(&ee), nil
}

// Write replaces the raw EEPROM contents with data. String descriptors are
// kept from the current contents. Size and layout checks are left to the
// driver.
func (e *EEPROM) Write(data []byte) error {
	ee := ftdi.EEPROM{}
	if err := e.ft.EEPROM(&ee); err != nil {
		return protocolErr("read EEPROM", err)
	}
	ee.Raw = slices.Clone(data)
	return protocolErr("write EEPROM", e.ft.WriteEEPROM(&ee))
}

func (e *EEPROM) Erase() error {
	return protocolErr("erase EEPROM", e.ft.EraseEEPROM())
}

// Image is an EEPROM snapshot. Valid reports whether the driver accepts its
// layout.
type Image struct {
	Valid bool

	ee ftdi.EEPROM
}

// NewImage copies a decoded EEPROM.
func NewImage(ee *ftdi.EEPROM) *Image {
	img := &Image{Valid: ee.Validate() == nil, ee: *ee}
	img.ee.Raw = slices.Clone(ee.Raw)
	return img
}

// Bytes returns the raw EEPROM contents.
func (i *Image) Bytes() []byte { return i.ee.Raw }

// Dump writes a hexadecimal dump of the raw bytes.
func (i *Image) Dump(w io.Writer) error {
	d := hex.Dumper(w)
	if _, err := d.Write(i.ee.Raw); err != nil {
		return err
	}
	return d.Close()
}

// Show writes a human readable view of the decoded fields.
func (i *Image) Show(w io.Writer) error {
	ee := &i.ee
	if _, err := fmt.Fprintf(w, "Manufacturer:    %s\n"+
		"ManufacturerID:  %s\n"+
		"Desc:            %s\n"+
		"Serial:          %s\n",
		ee.Manufacturer, ee.ManufacturerID, ee.Desc, ee.Serial); err != nil {
		return err
	}

	// sizeof(ftdi.EEPROMHeader)
	if len(ee.Raw) < 16 {
		return nil
	}
	h := ee.AsHeader()
	if h == nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "MaxPower:        %dmA\n"+
		"SelfPowered:     %x\n"+
		"RemoteWakeup:    %x\n"+
		"PullDownEnable:  %x\n",
		h.MaxPower, h.SelfPowered, h.RemoteWakeup, h.PullDownEnable)
	return err
}
