// Package commands parses the slash-command palette input into typed
// commands the update loop can dispatch.
package commands

import (
	"fmt"
	"strings"

	"tidytask/internal/model"
)

type Type string

const (
	TypeAdd   Type = "add"
	TypeSort  Type = "sort"
	TypeTheme Type = "theme"
	TypeClear Type = "clear"
	TypeHelp  Type = "help"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

type SortArgs struct {
	Mode model.SortMode
}

type ThemeArgs struct {
	Mode model.ThemeMode
}

type Command struct {
	Type  Type
	Raw   string
	Add   *AddArgs
	Sort  *SortArgs
	Theme *ThemeArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		text := strings.TrimSpace(strings.TrimPrefix(raw, parts[0]))
		if text == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add needs task text"}
		}
		return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
	case TypeSort:
		if len(args) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sort needs one of: added, alpha"}
		}
		mode := model.SortMode(strings.ToLower(args[0]))
		if !mode.IsValid() {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown sort mode %q", args[0])}
		}
		return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Mode: mode}}, nil
	case TypeTheme:
		if len(args) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "theme needs one of: light, dark, system, time"}
		}
		mode := model.ThemeMode(strings.ToLower(args[0]))
		if !mode.IsValid() {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown theme %q", args[0])}
		}
		return Command{Type: TypeTheme, Raw: raw, Theme: &ThemeArgs{Mode: mode}}, nil
	case TypeClear:
		if len(args) != 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "clear takes no arguments"}
		}
		return Command{Type: TypeClear, Raw: raw}, nil
	case TypeHelp:
		return Command{Type: TypeHelp, Raw: raw}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command %q", head)}
	}
}
