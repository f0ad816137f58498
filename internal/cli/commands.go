package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gentam/boardctl/internal/command"
)

// Commands builds the command registry.
func Commands(open Opener, find Finder) *command.Registry {
	h := &handlers{open: open, find: find}
	return command.NewRegistry(
		&command.Spec{Name: "devices", Help: "list attached boards", Run: h.devices},
		&command.Spec{Name: "buttons", Help: "list buttons", Run: h.buttons},
		&command.Spec{
			Name: "press",
			Help: "press a button",
			Args: []command.ArgSpec{{Name: "button", Help: "name of the button to press"}},
			Run:  h.press,
		},
		&command.Spec{
			Name: "release",
			Help: "release a button",
			Args: []command.ArgSpec{{Name: "button", Help: "name of the button to release"}},
			Run:  h.release,
		},
		&command.Spec{
			Name: "power-rail",
			Help: "show power rail status",
			Args: []command.ArgSpec{{Name: "rail", Help: "name of the rail (default: all rails)", Optional: true}},
			Run:  h.powerRail,
		},
		&command.Spec{
			Name: "eeprom",
			Help: "access the board EEPROM",
			Children: command.NewRegistry(
				&command.Spec{Name: "dump", Help: "hex dump EEPROM contents", Run: h.eepromDump},
				&command.Spec{Name: "show", Help: "show decoded EEPROM contents", Run: h.eepromShow},
				&command.Spec{
					Name: "read",
					Help: "save EEPROM contents to a file",
					Args: []command.ArgSpec{{Name: "file", Help: "output file"}},
					Run:  h.eepromRead,
				},
				&command.Spec{
					Name: "write",
					Help: "write a file to the EEPROM",
					Args: []command.ArgSpec{{Name: "file", Help: "input file"}},
					Run:  h.eepromWrite,
				},
				&command.Spec{Name: "erase", Help: "erase the EEPROM", Run: h.eepromErase},
			),
		},
	)
}

type handlers struct {
	open Opener
	find Finder
}

// withBoard opens the invocation's board, runs fn and closes the board on
// every path.
func (h *handlers) withBoard(inv *command.Invocation, fn func(Board) error) (err error) {
	b, err := h.open(inv.Locator)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := b.Close(); closeErr != nil {
			inv.Log.WithError(closeErr).Warn("failed to close device")
			err = errors.Join(err, closeErr)
		}
	}()
	return fn(b)
}

func (h *handlers) devices(_ context.Context, inv *command.Invocation) error {
	seq, err := h.find()
	if err != nil {
		return err
	}
	for d := range seq {
		fmt.Fprintf(inv.Stdout, "%04x:%04x %s\n", d.VendorID, d.ProductID, d.Description)
		if d.Serial != "" {
			fmt.Fprintf(inv.Stdout, "  serial: %s\n", d.Serial)
		}
	}
	return nil
}

func (h *handlers) buttons(_ context.Context, inv *command.Invocation) error {
	return h.withBoard(inv, func(b Board) error {
		for _, btn := range b.Buttons() {
			fmt.Fprintln(inv.Stdout, btn.Name())
		}
		return nil
	})
}

func (h *handlers) press(_ context.Context, inv *command.Invocation) error {
	return h.withButton(inv, Button.Press)
}

func (h *handlers) release(_ context.Context, inv *command.Invocation) error {
	return h.withButton(inv, Button.Release)
}

// withButton applies op to the named button. An unknown name is reported
// but is not an error.
func (h *handlers) withButton(inv *command.Invocation, op func(Button) error) error {
	name := inv.Arg("button")
	return h.withBoard(inv, func(b Board) error {
		for _, btn := range b.Buttons() {
			if btn.Name() == name {
				return op(btn)
			}
		}
		fmt.Fprintf(inv.Stdout, "unknown button %q\n", name)
		return nil
	})
}

func (h *handlers) powerRail(_ context.Context, inv *command.Invocation) error {
	return h.withBoard(inv, func(b Board) error {
		if !inv.Has("rail") {
			for _, r := range b.Rails() {
				if err := showRail(inv.Stdout, r); err != nil {
					return err
				}
			}
			return nil
		}

		name := inv.Arg("rail")
		for _, r := range b.Rails() {
			if r.Name() == name {
				return showRail(inv.Stdout, r)
			}
		}
		fmt.Fprintf(inv.Stdout, "unknown power rail %q\n", name)
		return nil
	})
}

func showRail(w io.Writer, r Rail) error {
	on, err := r.Status()
	if err != nil {
		return err
	}
	status := "off"
	if on {
		status = "on"
	}
	_, err = fmt.Fprintf(w, "%s: %s\n", r.Name(), status)
	return err
}

func (h *handlers) eepromDump(_ context.Context, inv *command.Invocation) error {
	return h.withBoard(inv, func(b Board) error {
		img, err := b.EEPROM().Read()
		if err != nil {
			return err
		}
		return img.Dump(inv.Stdout)
	})
}

// eepromShow prints nothing for an image the driver does not consider valid.
func (h *handlers) eepromShow(_ context.Context, inv *command.Invocation) error {
	return h.withBoard(inv, func(b Board) error {
		img, err := b.EEPROM().Read()
		if err != nil {
			return err
		}
		if !img.Valid {
			inv.Log.Debug("EEPROM image invalid, nothing to show")
			return nil
		}
		return img.Show(inv.Stdout)
	})
}

func (h *handlers) eepromRead(_ context.Context, inv *command.Invocation) error {
	return h.withBoard(inv, func(b Board) error {
		img, err := b.EEPROM().Read()
		if err != nil {
			return err
		}
		return writeFile(inv.Arg("file"), img.Bytes())
	})
}

func writeFile(name string, data []byte) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	_, err = f.Write(data)
	return err
}

func (h *handlers) eepromWrite(_ context.Context, inv *command.Invocation) error {
	data, err := readFile(inv.Arg("file"))
	if err != nil {
		return err
	}
	return h.withBoard(inv, func(b Board) error {
		inv.Log.WithField("bytes", len(data)).Debug("writing EEPROM")
		return b.EEPROM().Write(data)
	})
}

func readFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *handlers) eepromErase(_ context.Context, inv *command.Invocation) error {
	return h.withBoard(inv, func(b Board) error {
		return b.EEPROM().Erase()
	})
}
