// boardctl controls a development board through its FTDI bridge: it lists
// attached boards, presses and releases buttons, reports power rails and
// reads or writes the bridge EEPROM.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/gentam/boardctl"
	"github.com/gentam/boardctl/internal/cli"
	"github.com/gentam/boardctl/internal/command"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

const (
	envConfig   = "BOARDCTL_CONFIG"
	envLogLevel = "BOARDCTL_LOG_LEVEL"
)

var version = "dev"

// driver builds the device access used by the commands once the board
// profile is known.
type driver struct {
	opener func(boardctl.Options) cli.Opener
	finder func(boardctl.Options) cli.Finder
}

var ftdiDriver = driver{opener: cli.DeviceOpener, finder: cli.DeviceFinder}

type globalOptions struct {
	serial   string
	config   string
	logLevel string
}

func main() {
	os.Exit(run(context.Background(), ftdiDriver, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, drv driver, args []string, stdout, stderr io.Writer) int {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var (
		opts  globalOptions
		board boardctl.Options
	)
	open := func(loc boardctl.Locator) (cli.Board, error) {
		return drv.opener(board)(loc)
	}
	find := func() (iter.Seq[boardctl.Descriptor], error) {
		return drv.finder(board)()
	}
	dispatcher := &command.Dispatcher{
		Program:  "boardctl",
		Registry: cli.Commands(open, find),
		Stdout:   stdout,
		Stderr:   stderr,
		Log:      log,
	}

	root := &cobra.Command{
		Use:           "boardctl [-s serial] <command> [arguments]",
		Short:         "Control a development board through its FTDI bridge",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return &command.ArgumentError{Msg: err.Error(), Usage: dispatcher.Usage()}
			}
			log.SetLevel(level)

			profile, err := loadProfile(opts.config)
			if err != nil {
				return err
			}
			log.WithField("profile", profile.Name).Debug("board profile loaded")
			board = boardctl.Options{Profile: profile, Log: log}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locatorFor(opts.serial)
			if err != nil {
				return &command.ArgumentError{Msg: err.Error(), Usage: dispatcher.Usage()}
			}
			return dispatcher.Dispatch(cmd.Context(), loc, args)
		},
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetHelpFunc(func(c *cobra.Command, _ []string) {
		fmt.Fprintf(c.OutOrStdout(), "%s\n\n%s\nGlobal options:\n%s", c.Short, dispatcher.Usage(), c.LocalFlags().FlagUsages())
	})
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &command.ArgumentError{Msg: err.Error(), Usage: dispatcher.Usage()}
	})

	// Everything after the command name belongs to the dispatcher.
	root.Flags().SetInterspersed(false)
	pf := root.PersistentFlags()
	pf.StringVarP(&opts.serial, "serial", "s", "", "serial number or ftdi:// locator of the board to control (default: any)")
	pf.StringVarP(&opts.config, "config", "c", os.Getenv(envConfig), "board profile YAML file (default: built-in Jetson profile, env "+envConfig+")")
	pf.StringVar(&opts.logLevel, "log-level", envOr(envLogLevel, "warning"), "log level (env "+envLogLevel+")")

	return exitCode(stderr, root.ExecuteContext(ctx))
}

func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return exitSuccess
	}

	var (
		argErr     *command.ArgumentError
		unknownErr *command.UnknownCommandError
	)
	switch {
	case errors.As(err, &argErr):
		fmt.Fprintf(stderr, "boardctl: %v\n\n%s", err, argErr.Usage)
		return exitUsage
	case errors.As(err, &unknownErr):
		fmt.Fprintf(stderr, "boardctl: %v\n\n%s", err, unknownErr.Usage)
		return exitUsage
	}
	fmt.Fprintf(stderr, "boardctl: %v\n", err)
	return exitFailure
}

// locatorFor accepts a bare serial number or a full connection identifier.
func locatorFor(serial string) (boardctl.Locator, error) {
	switch {
	case serial == "":
		return boardctl.Any(), nil
	case strings.HasPrefix(serial, "ftdi://"):
		return boardctl.ParseLocator(serial)
	}
	return boardctl.BySerial(serial), nil
}

func loadProfile(path string) (*boardctl.Profile, error) {
	if path == "" {
		return boardctl.DefaultProfile(), nil
	}
	return boardctl.LoadProfile(path)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
