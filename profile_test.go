package boardctl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, "jetson", p.Name)

	var buttons []string
	for _, b := range p.Buttons {
		buttons = append(buttons, b.Name)
		assert.True(t, b.activeLow())
	}
	assert.Equal(t, []string{"power", "reset", "recovery", "force-off"}, buttons)
	require.Len(t, p.Rails, 2)
	assert.Equal(t, "main", p.Rails[0].Name)
	assert.True(t, p.matches(0x0403, 0x6010))
	assert.True(t, p.matches(0x0403, 0x6014))
	assert.False(t, p.matches(0x0403, 0x6011), "FT4232H has no GPIO header")
}

func TestParseProfileClock(t *testing.T) {
	p, err := ParseProfile([]byte(`
signatures: [{vendor: 0x0403, product: 0x6014}]
clock: 1MHz
buttons:
  - {name: power, pin: 3, active_low: false}
`))
	require.NoError(t, err)
	f, err := p.ClockFrequency()
	require.NoError(t, err)
	assert.Equal(t, physic.MegaHertz, f)
	assert.False(t, p.Buttons[0].activeLow())
}

func TestParseProfileInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no signatures", `buttons: [{name: power, pin: 1}]`, "no USB signatures"},
		{"bad clock", "signatures: [{vendor: 1, product: 2}]\nclock: fast", "invalid clock"},
		{"duplicate button", "signatures: [{vendor: 1, product: 2}]\nbuttons: [{name: a, pin: 1}, {name: a, pin: 2}]", `button "a": duplicate`},
		{"unnamed rail", "signatures: [{vendor: 1, product: 2}]\nrails: [{pin: 1}]", "rail #0: missing name"},
		{"negative pin", "signatures: [{vendor: 1, product: 2}]\nrails: [{name: main, pin: -1}]", "invalid pin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: custom\nsignatures: [{vendor: 0x0403, product: 0x6014}]\n"), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
