package boardctl

import "fmt"

// DeviceOpenError indicates that no attached hardware matched the locator,
// or that the matching device could not be brought up.
type DeviceOpenError struct {
	Locator Locator
	Err     error
}

func (e *DeviceOpenError) Error() string {
	return fmt.Sprintf("failed to open %s: %v", e.Locator, e.Err)
}

func (e *DeviceOpenError) Unwrap() error { return e.Err }

// ProtocolError indicates a communication failure with an opened device.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func protocolErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProtocolError{Op: op, Err: err}
}
