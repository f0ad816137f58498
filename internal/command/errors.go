package command

import (
	"fmt"
	"strings"
)

// UnknownCommandError is returned when a token names no registered command.
type UnknownCommandError struct {
	Path  []string
	Name  string
	Usage string
}

func (e *UnknownCommandError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("unknown command %q", e.Name)
	}
	return fmt.Sprintf("unknown %s command %q", strings.Join(e.Path, " "), e.Name)
}

// ArgumentError reports malformed input for a command.
type ArgumentError struct {
	Path  []string
	Msg   string
	Usage string
}

func (e *ArgumentError) Error() string {
	if len(e.Path) == 0 {
		return e.Msg
	}
	return strings.Join(e.Path, " ") + ": " + e.Msg
}
