package cli

import (
	"iter"

	"github.com/gentam/boardctl"
)

// Button, Rail, EEPROM and Board are the capabilities the commands use. They
// are satisfied by the boardctl device types and by test doubles.
type Button interface {
	Name() string
	Press() error
	Release() error
}

type Rail interface {
	Name() string
	Status() (bool, error)
}

type EEPROM interface {
	Read() (*boardctl.Image, error)
	Write(data []byte) error
	Erase() error
}

type Board interface {
	Buttons() []Button
	Rails() []Rail
	EEPROM() EEPROM
	Close() error
}

// Opener opens the board selected by a locator.
type Opener func(boardctl.Locator) (Board, error)

// Finder enumerates attached boards.
type Finder func() (iter.Seq[boardctl.Descriptor], error)

// DeviceOpener opens boards through the FTDI driver.
func DeviceOpener(opts boardctl.Options) Opener {
	return func(loc boardctl.Locator) (Board, error) {
		d, err := boardctl.Open(loc, opts)
		if err != nil {
			return nil, err
		}
		return deviceBoard{d}, nil
	}
}

// DeviceFinder enumerates boards through the FTDI driver.
func DeviceFinder(opts boardctl.Options) Finder {
	return func() (iter.Seq[boardctl.Descriptor], error) {
		return boardctl.Find(opts)
	}
}

type deviceBoard struct {
	d *boardctl.Device
}

func (b deviceBoard) Buttons() []Button {
	var out []Button
	for _, btn := range b.d.Buttons() {
		out = append(out, btn)
	}
	return out
}

func (b deviceBoard) Rails() []Rail {
	var out []Rail
	for _, r := range b.d.Rails() {
		out = append(out, r)
	}
	return out
}

func (b deviceBoard) EEPROM() EEPROM { return b.d.EEPROM() }
func (b deviceBoard) Close() error   { return b.d.Close() }
