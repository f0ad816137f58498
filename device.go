package boardctl

import (
	"errors"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
)

// ftdiDev is the subset of ftdi.Dev the board needs.
type ftdiDev interface {
	String() string
	Halt() error
	Info(i *ftdi.Info)
	Header() []gpio.PinIO
	SetSpeed(f physic.Frequency) error
	EEPROM(ee *ftdi.EEPROM) error
	WriteEEPROM(ee *ftdi.EEPROM) error
	EraseEEPROM() error
}

var hostInitialized atomic.Bool

var (
	initHost = func() error {
		if hostInitialized.CompareAndSwap(false, true) {
			if _, err := host.Init(); err != nil {
				hostInitialized.Store(false)
				return fmt.Errorf("host initialization failed: %w", err)
			}
		}
		return nil
	}
	allDevices = func() []ftdiDev {
		var devs []ftdiDev
		for _, d := range ftdi.All() {
			devs = append(devs, d)
		}
		return devs
	}
)

// Options configures Open and Find. Zero values select the built-in profile
// and the standard logger.
type Options struct {
	Profile *Profile
	Log     logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.Profile == nil {
		o.Profile = DefaultProfile()
	}
	if o.Log == nil {
		o.Log = logrus.StandardLogger()
	}
	return o
}

// Descriptor identifies an attached bridge matching a supported signature.
type Descriptor struct {
	VendorID    uint16
	ProductID   uint16
	Type        string
	Description string
	Serial      string
}

// Find enumerates attached devices matching the profile's signatures. The
// sequence queries hardware as it is consumed.
func Find(opts Options) (iter.Seq[Descriptor], error) {
	opts = opts.withDefaults()
	if err := initHost(); err != nil {
		return nil, err
	}

	return func(yield func(Descriptor) bool) {
		for _, dev := range allDevices() {
			info := ftdi.Info{}
			dev.Info(&info)
			if !opts.Profile.matches(info.VenID, info.DevID) {
				continue
			}

			desc := Descriptor{
				VendorID:    info.VenID,
				ProductID:   info.DevID,
				Type:        info.Type,
				Description: info.Type,
			}
			ee := ftdi.EEPROM{}
			if err := dev.EEPROM(&ee); err != nil {
				opts.Log.WithError(err).WithField("device", dev.String()).Debug("EEPROM unreadable, serial unknown")
			} else {
				if ee.Desc != "" {
					desc.Description = ee.Desc
				}
				desc.Serial = ee.Serial
			}
			if !yield(desc) {
				return
			}
		}
	}, nil
}

// Device is one opened carrier board.
type Device struct {
	ft      ftdiDev
	info    ftdi.Info
	buttons []*Button
	rails   []*PowerRail
	eeprom  *EEPROM
	log     logrus.FieldLogger
}

// Open finds the device selected by loc and binds the profile's buttons and
// rails to its header pins. Only bridge types exposing a GPIO header
// (FT232H, FT2232H, FT232R) can be opened.
func Open(loc Locator, opts Options) (_ *Device, err error) {
	opts = opts.withDefaults()
	if err := initHost(); err != nil {
		return nil, &DeviceOpenError{Locator: loc, Err: err}
	}

	ft, info, err := selectDevice(loc, opts.Profile)
	if err != nil {
		return nil, &DeviceOpenError{Locator: loc, Err: err}
	}
	log := opts.Log.WithFields(logrus.Fields{"locator": loc.String(), "device": ft.String(), "type": info.Type})
	log.Debug("device selected")
	defer func() {
		if err != nil {
			if haltErr := ft.Halt(); haltErr != nil {
				err = errors.Join(err, protocolErr("halt", haltErr))
			}
		}
	}()

	if clk, _ := opts.Profile.ClockFrequency(); clk != 0 {
		if err := ft.SetSpeed(clk); err != nil {
			return nil, &DeviceOpenError{Locator: loc, Err: fmt.Errorf("failed to set clock %s: %w", clk, err)}
		}
	}

	d := &Device{ft: ft, info: info, eeprom: &EEPROM{ft: ft}, log: log}
	header := ft.Header()
	pin := func(kind, name string, n int) (gpio.PinIO, error) {
		if n >= len(header) || header[n] == nil {
			return nil, fmt.Errorf("%s %q: pin %d not available on %s (%d pins)", kind, name, n, info.Type, len(header))
		}
		return header[n], nil
	}
	for _, b := range opts.Profile.Buttons {
		p, err := pin("button", b.Name, b.Pin)
		if err != nil {
			return nil, &DeviceOpenError{Locator: loc, Err: err}
		}
		d.buttons = append(d.buttons, &Button{name: b.Name, pin: p, activeLow: b.activeLow()})
	}
	for _, r := range opts.Profile.Rails {
		p, err := pin("rail", r.Name, r.Pin)
		if err != nil {
			return nil, &DeviceOpenError{Locator: loc, Err: err}
		}
		d.rails = append(d.rails, &PowerRail{name: r.Name, pin: p, onHigh: r.onHigh()})
	}
	return d, nil
}

// selectDevice returns the first device matching loc and the profile's
// signatures. The ftdi driver gives no header to chips it cannot bit-bang
// (FT4232H among them); those are skipped.
func selectDevice(loc Locator, p *Profile) (ftdiDev, ftdi.Info, error) {
	info := ftdi.Info{}
	unsupported := ""
	for _, dev := range allDevices() {
		dev.Info(&info)
		if !p.matches(info.VenID, info.DevID) {
			continue
		}
		if !loc.IsAny() {
			ee := ftdi.EEPROM{}
			if err := dev.EEPROM(&ee); err != nil || ee.Serial != loc.Serial {
				continue
			}
		}
		if len(dev.Header()) == 0 {
			unsupported = info.Type
			continue
		}
		return dev, info, nil
	}

	switch {
	case unsupported != "":
		return nil, info, fmt.Errorf("unsupported bridge type %s: no GPIO header", unsupported)
	case loc.IsAny():
		return nil, info, errors.New("no supported device found")
	}
	return nil, info, fmt.Errorf("no device with serial %q found", loc.Serial)
}

// Buttons returns the board's buttons in profile order.
func (d *Device) Buttons() []*Button { return d.buttons }

// Rails returns the board's power rails in profile order.
func (d *Device) Rails() []*PowerRail { return d.rails }

func (d *Device) EEPROM() *EEPROM { return d.eeprom }

// Close releases every button to its idle level and halts the bridge. The
// halt resets the bridge's bit mode, so no line stays driven past Close.
func (d *Device) Close() error {
	var errs []error
	for _, b := range d.buttons {
		if err := b.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := d.ft.Halt(); err != nil {
		errs = append(errs, protocolErr("halt", err))
	}
	d.log.Debug("device closed")
	return errors.Join(errs...)
}
