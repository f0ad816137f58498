package boardctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocatorString(t *testing.T) {
	tests := []struct {
		name string
		loc  Locator
		want string
	}{
		{"any", Any(), "ftdi://ftdi:2232h/1"},
		{"serial", BySerial("TPC1234"), "ftdi://ftdi:2232h:TPC1234/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.loc.String())
		})
	}
}

func TestParseLocator(t *testing.T) {
	for _, loc := range []Locator{Any(), BySerial("TPC1234")} {
		got, err := ParseLocator(loc.String())
		require.NoError(t, err)
		assert.Equal(t, loc, got)
	}

	for _, bad := range []string{
		"",
		"usb://ftdi:2232h/1",
		"ftdi://ftdi:2232h/2",
		"ftdi://ftdi:2232h",
		"ftdi://acme:2232h/1",
		"ftdi://ftdi:2232h:/1",
		"ftdi://ftdi:2232h:a:b/1",
		"ftdi://ftdi:4232h/1",
	} {
		_, err := ParseLocator(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestLocatorIsAny(t *testing.T) {
	assert.True(t, Any().IsAny())
	assert.False(t, BySerial("x").IsAny())
}
