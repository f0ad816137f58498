package command

import (
	"context"
	"fmt"
	"io"

	"github.com/gentam/boardctl"
	"github.com/sirupsen/logrus"
)

// ArgSpec declares one positional argument.
type ArgSpec struct {
	Name     string
	Help     string
	Optional bool
}

func (a ArgSpec) String() string {
	if a.Optional {
		return "[" + a.Name + "]"
	}
	return "<" + a.Name + ">"
}

// RunFunc executes a leaf command.
type RunFunc func(ctx context.Context, inv *Invocation) error

type Kind int

const (
	Leaf Kind = iota
	Parent
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Parent:
		return "parent"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Spec describes a command. Exactly one of Run and Children is set.
type Spec struct {
	Name     string
	Help     string
	Args     []ArgSpec
	Run      RunFunc
	Children *Registry
}

func (s *Spec) Kind() Kind {
	if s.Children != nil {
		return Parent
	}
	return Leaf
}

func (s *Spec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("command has no name")
	}
	switch {
	case s.Run != nil && s.Children != nil:
		return fmt.Errorf("command %s: has both a handler and subcommands", s.Name)
	case s.Run == nil && s.Children == nil:
		return fmt.Errorf("command %s: has neither a handler nor subcommands", s.Name)
	case s.Children != nil && len(s.Args) > 0:
		return fmt.Errorf("command %s: parent commands take no arguments", s.Name)
	}

	optional := false
	for _, a := range s.Args {
		if a.Optional {
			optional = true
		} else if optional {
			return fmt.Errorf("command %s: required argument %s follows an optional one", s.Name, a)
		}
	}
	return nil
}

// Invocation is what a leaf command runs with.
type Invocation struct {
	Locator boardctl.Locator
	Path    []string
	Args    map[string]string
	Stdout  io.Writer
	Stderr  io.Writer
	Log     logrus.FieldLogger
}

// Arg returns the bound value of a positional argument, or "" if an optional
// argument was omitted.
func (inv *Invocation) Arg(name string) string { return inv.Args[name] }

// Has reports whether the argument was given.
func (inv *Invocation) Has(name string) bool {
	_, ok := inv.Args[name]
	return ok
}
