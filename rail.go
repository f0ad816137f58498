package boardctl

import "periph.io/x/conn/v3/gpio"

// PowerRail senses a power-good line. Rails are read-only.
type PowerRail struct {
	name   string
	pin    gpio.PinIO
	onHigh bool
}

func (r *PowerRail) Name() string { return r.name }

// Status reports whether the rail is powered.
func (r *PowerRail) Status() (bool, error) {
	if err := r.pin.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return false, protocolErr("read rail "+r.name, err)
	}
	return r.pin.Read() == gpio.Level(r.onHigh), nil
}
