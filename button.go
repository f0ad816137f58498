package boardctl

import "periph.io/x/conn/v3/gpio"

// Button simulates a physical button by driving its control line.
type Button struct {
	name      string
	pin       gpio.PinIO
	activeLow bool
}

func (b *Button) Name() string { return b.name }

// Press asserts the control line.
func (b *Button) Press() error {
	return protocolErr("press "+b.name, b.pin.Out(b.level(true)))
}

// Release deasserts the control line.
func (b *Button) Release() error {
	return protocolErr("release "+b.name, b.pin.Out(b.level(false)))
}

func (b *Button) level(pressed bool) gpio.Level {
	return gpio.Level(pressed != b.activeLow)
}
