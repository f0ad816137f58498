package main

import (
	"bytes"
	"context"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gentam/boardctl"
	"github.com/gentam/boardctl/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubButton string

func (b stubButton) Name() string   { return string(b) }
func (b stubButton) Press() error   { return nil }
func (b stubButton) Release() error { return nil }

type stubBoard struct{}

func (stubBoard) Buttons() []cli.Button { return []cli.Button{stubButton("power"), stubButton("reset")} }
func (stubBoard) Rails() []cli.Rail     { return nil }
func (stubBoard) EEPROM() cli.EEPROM    { return nil }
func (stubBoard) Close() error          { return nil }

// recordingDriver records the locators and profiles the commands open with.
type recordingDriver struct {
	opened   []boardctl.Locator
	profiles []string
}

func (r *recordingDriver) driver() driver {
	return driver{
		opener: func(opts boardctl.Options) cli.Opener {
			return func(loc boardctl.Locator) (cli.Board, error) {
				r.opened = append(r.opened, loc)
				r.profiles = append(r.profiles, opts.Profile.Name)
				return stubBoard{}, nil
			}
		},
		finder: func(boardctl.Options) cli.Finder {
			return func() (iter.Seq[boardctl.Descriptor], error) {
				return slices.Values([]boardctl.Descriptor(nil)), nil
			}
		},
	}
}

func runWith(t *testing.T, drv driver, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(envConfig, "")
	t.Setenv(envLogLevel, "")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), drv, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	return runWith(t, (&recordingDriver{}).driver(), args...)
}

func TestSerialSelectsBoard(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want boardctl.Locator
	}{
		{"any", []string{"buttons"}, boardctl.Any()},
		{"short flag", []string{"-s", "TPC1", "buttons"}, boardctl.BySerial("TPC1")},
		{"long flag", []string{"--serial=TPC1", "buttons"}, boardctl.BySerial("TPC1")},
		{"locator", []string{"-s", "ftdi://ftdi:2232h:TPC1/1", "buttons"}, boardctl.BySerial("TPC1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingDriver{}
			code, stdout, stderr := runWith(t, rec.driver(), tt.args...)
			require.Equal(t, exitSuccess, code, stderr)
			assert.Equal(t, "power\nreset\n", stdout)
			assert.Equal(t, []boardctl.Locator{tt.want}, rec.opened)
			assert.Equal(t, []string{"jetson"}, rec.profiles)
		})
	}
}

func TestBadLocator(t *testing.T) {
	rec := &recordingDriver{}
	code, _, stderr := runWith(t, rec.driver(), "-s", "ftdi://ftdi:4232h/1", "buttons")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "invalid locator")
	assert.Empty(t, rec.opened)
}

func TestConfigProfileReachesDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bench\nsignatures: [{vendor: 0x0403, product: 0x6014}]\nbuttons: [{name: power, pin: 4}]\n"), 0o644))

	rec := &recordingDriver{}
	code, _, stderr := runWith(t, rec.driver(), "-c", path, "buttons")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Equal(t, []string{"bench"}, rec.profiles)
}

func TestNoCommandPrintsHelp(t *testing.T) {
	code, stdout, stderr := runCLI(t)
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "Commands:")
	assert.Regexp(t, `(?s)devices.*buttons.*press.*release.*power-rail.*eeprom`, stdout)
	assert.Empty(t, stderr)
}

func TestHelpFlag(t *testing.T) {
	code, stdout, _ := runCLI(t, "--help")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "Global options:")
	assert.Contains(t, stdout, "--serial")
	assert.Contains(t, stdout, "power-rail")
}

func TestCommandHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "-s", "TPC1", "eeprom", "--help")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "boardctl eeprom <command>")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "boardctl version dev")
}

func TestUnknownCommand(t *testing.T) {
	code, stdout, stderr := runCLI(t, "reboot")
	assert.Equal(t, exitUsage, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `boardctl: unknown command "reboot"`)
	assert.Contains(t, stderr, "Commands:")
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing button", []string{"press"}, "boardctl: press: missing argument <button>"},
		{"missing subcommand", []string{"eeprom"}, "boardctl: eeprom: missing subcommand"},
		{"unknown flag", []string{"--bogus", "devices"}, "unknown flag: --bogus"},
		{"bad log level", []string{"--log-level", "loud", "devices"}, "not a valid logrus Level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestBadProfileIsFatal(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"), "devices")
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "boardctl: open ")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	assert.NoError(t, os.WriteFile(bad, []byte("name: x\n"), 0o644))
	code, _, stderr = runCLI(t, "--config", bad, "buttons")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "no USB signatures")
}
