package command

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/gentam/boardctl"
	"github.com/sirupsen/logrus"
)

// Dispatcher routes an argument vector through a Registry.
type Dispatcher struct {
	Program  string
	Registry *Registry
	Stdout   io.Writer
	Stderr   io.Writer
	Log      logrus.FieldLogger
}

func isHelpFlag(s string) bool { return s == "-h" || s == "--help" }

// Dispatch runs the leaf command selected by args against loc. With no
// arguments it writes the top-level usage and succeeds.
func (d *Dispatcher) Dispatch(ctx context.Context, loc boardctl.Locator, args []string) error {
	if len(args) > 0 && args[0] == "help" {
		return d.help(args[1:])
	}
	return d.dispatch(ctx, loc, nil, nil, args)
}

func (d *Dispatcher) dispatch(ctx context.Context, loc boardctl.Locator, parent *Spec, path, args []string) error {
	reg := d.Registry
	if parent != nil {
		reg = parent.Children
	}

	if len(args) == 0 {
		if parent == nil {
			d.writeUsage(d.Stdout, nil, nil)
			return nil
		}
		return &ArgumentError{Path: path, Msg: "missing subcommand", Usage: d.usage(path, parent)}
	}
	if isHelpFlag(args[0]) {
		d.writeUsage(d.Stdout, path, parent)
		return nil
	}

	name, rest := args[0], args[1:]
	spec, ok := reg.Lookup(name)
	if !ok {
		return &UnknownCommandError{Path: path, Name: name, Usage: d.usage(path, parent)}
	}
	path = append(slices.Clip(path), name)

	if spec.Kind() == Parent {
		return d.dispatch(ctx, loc, spec, path, rest)
	}

	if len(rest) > 0 && isHelpFlag(rest[0]) {
		d.writeUsage(d.Stdout, path, spec)
		return nil
	}
	bound, err := bind(spec.Args, rest)
	if err != nil {
		return &ArgumentError{Path: path, Msg: err.Error(), Usage: d.usage(path, spec)}
	}

	log := d.logger().WithFields(logrus.Fields{"command": strings.Join(path, " "), "locator": loc.String()})
	log.Debug("dispatching command")
	return spec.Run(ctx, &Invocation{
		Locator: loc,
		Path:    path,
		Args:    bound,
		Stdout:  d.Stdout,
		Stderr:  d.Stderr,
		Log:     log,
	})
}

func bind(specs []ArgSpec, tokens []string) (map[string]string, error) {
	bound := make(map[string]string, len(specs))
	for i, a := range specs {
		if i >= len(tokens) {
			if a.Optional {
				break
			}
			return nil, fmt.Errorf("missing argument %s", a)
		}
		bound[a.Name] = tokens[i]
	}
	if len(tokens) > len(specs) {
		return nil, fmt.Errorf("unexpected argument %q", tokens[len(specs)])
	}
	return bound, nil
}

// help writes usage for the command named by path.
func (d *Dispatcher) help(path []string) error {
	var spec *Spec
	reg := d.Registry
	for i, name := range path {
		if reg == nil {
			return &ArgumentError{Path: path[:i], Msg: "takes no subcommands", Usage: d.usage(path[:i], spec)}
		}
		s, ok := reg.Lookup(name)
		if !ok {
			return &UnknownCommandError{Path: path[:i], Name: name, Usage: d.usage(path[:i], spec)}
		}
		spec, reg = s, s.Children
	}
	d.writeUsage(d.Stdout, path, spec)
	return nil
}

func (d *Dispatcher) usage(path []string, spec *Spec) string {
	var b strings.Builder
	d.writeUsage(&b, path, spec)
	return b.String()
}

// writeUsage renders help for spec, or the top-level help if spec is nil.
func (d *Dispatcher) writeUsage(w io.Writer, path []string, spec *Spec) {
	prog := strings.Join(append([]string{d.Program}, path...), " ")
	if spec != nil && spec.Help != "" {
		fmt.Fprintf(w, "%s\n\n", spec.Help)
	}

	fmt.Fprintln(w, "Usage:")
	if spec != nil && spec.Kind() == Leaf {
		line := prog
		for _, a := range spec.Args {
			line += " " + a.String()
		}
		fmt.Fprintf(w, "\t%s\n", line)

		if len(spec.Args) > 0 {
			fmt.Fprintln(w, "\nArguments:")
			tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
			for _, a := range spec.Args {
				fmt.Fprintf(tw, "\t%s\t%s\n", a.Name, a.Help)
			}
			tw.Flush()
		}
		return
	}

	reg := d.Registry
	if spec != nil {
		reg = spec.Children
	}
	fmt.Fprintf(w, "\t%s <command> [arguments]\n\nCommands:\n", prog)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, s := range reg.Specs() {
		fmt.Fprintf(tw, "\t%s\t%s\n", s.Name, s.Help)
	}
	tw.Flush()
}

// Usage returns the top-level help text.
func (d *Dispatcher) Usage() string { return d.usage(nil, nil) }

func (d *Dispatcher) logger() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}
