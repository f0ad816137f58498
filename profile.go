package boardctl

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Profile describes how a carrier board is wired to its FTDI bridge.
type Profile struct {
	Name       string      `yaml:"name"`
	Signatures []Signature `yaml:"signatures"`
	Clock      string      `yaml:"clock"`
	Buttons    []ButtonPin `yaml:"buttons"`
	Rails      []RailPin   `yaml:"rails"`
}

// Signature is a USB vendor/product pair the board's bridge may enumerate as.
type Signature struct {
	Vendor  uint16 `yaml:"vendor"`
	Product uint16 `yaml:"product"`
}

func (s Signature) String() string { return fmt.Sprintf("%04x:%04x", s.Vendor, s.Product) }

// ButtonPin maps a button to a header pin. Buttons are active low unless
// ActiveLow is explicitly set to false.
type ButtonPin struct {
	Name      string `yaml:"name"`
	Pin       int    `yaml:"pin"`
	ActiveLow *bool  `yaml:"active_low"`
}

func (b ButtonPin) activeLow() bool { return b.ActiveLow == nil || *b.ActiveLow }

// RailPin maps a power rail to a header pin sensing its power-good signal.
type RailPin struct {
	Name   string `yaml:"name"`
	Pin    int    `yaml:"pin"`
	OnHigh *bool  `yaml:"on_high"`
}

func (r RailPin) onHigh() bool { return r.OnHigh == nil || *r.OnHigh }

//go:embed profiles/jetson.yaml
var defaultProfileYAML []byte

// DefaultProfile returns the built-in profile for the Jetson carrier board.
func DefaultProfile() *Profile {
	p, err := ParseProfile(defaultProfileYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in profile: %v", err))
	}
	return p
}

// LoadProfile reads and validates a YAML profile from path.
func LoadProfile(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParseProfile(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func ParseProfile(b []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks names are unique per list, pins are in range and at least
// one signature is declared.
func (p *Profile) Validate() error {
	if len(p.Signatures) == 0 {
		return errors.New("profile declares no USB signatures")
	}
	if _, err := p.ClockFrequency(); err != nil {
		return err
	}

	seen := map[string]bool{}
	for i, b := range p.Buttons {
		if b.Name == "" {
			return fmt.Errorf("button #%d: missing name", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("button %q: duplicate name", b.Name)
		}
		if b.Pin < 0 {
			return fmt.Errorf("button %q: invalid pin %d", b.Name, b.Pin)
		}
		seen[b.Name] = true
	}

	clear(seen)
	for i, r := range p.Rails {
		if r.Name == "" {
			return fmt.Errorf("rail #%d: missing name", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("rail %q: duplicate name", r.Name)
		}
		if r.Pin < 0 {
			return fmt.Errorf("rail %q: invalid pin %d", r.Name, r.Pin)
		}
		seen[r.Name] = true
	}
	return nil
}

// ClockFrequency parses Clock; zero means the driver default.
func (p *Profile) ClockFrequency() (physic.Frequency, error) {
	var f physic.Frequency
	if p.Clock == "" {
		return 0, nil
	}
	if err := f.Set(p.Clock); err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", p.Clock, err)
	}
	return f, nil
}

func (p *Profile) matches(venID, devID uint16) bool {
	for _, s := range p.Signatures {
		if s.Vendor == venID && s.Product == devID {
			return true
		}
	}
	return false
}
