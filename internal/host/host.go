// Package host dispatches host command messages to their handlers and frames
// the responses.
package host

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/andrei-cloud/paycalc/internal/errorcodes"
	"github.com/andrei-cloud/paycalc/internal/host/logic"
	"github.com/rs/zerolog/log"
)

// Firmware is the version string reported by NC.
const Firmware = "0007-PC01"

// ErrUnknownCommand is returned by ExecuteCommand for unregistered codes.
var ErrUnknownCommand = errors.New("unknown command")

// ErrMalformedRequest is returned by Handle for messages shorter than a
// command code.
var ErrMalformedRequest = errors.New("malformed request")

// ExecuteFunc runs a command over its payload and returns the full response.
type ExecuteFunc func(input []byte) ([]byte, error)

// Command describes one registered host command.
type Command struct {
	Code        string
	Description string
	Execute     ExecuteFunc
}

// Dispatcher routes commands by their two-character code.
type Dispatcher struct {
	firmware string
	commands map[string]Command
	mu       sync.RWMutex
}

// Result is the outcome of handling one message.
type Result struct {
	Command      string
	ResponseCode string
	ErrorCode    string
	Response     []byte
	Err          error
}

// NewDispatcher returns a dispatcher with no commands.
func NewDispatcher(firmware string) *Dispatcher {
	return &Dispatcher{firmware: firmware, commands: make(map[string]Command)}
}

// NewDefaultDispatcher returns a dispatcher with every built-in command.
func NewDefaultDispatcher() *Dispatcher {
	d := NewDispatcher(Firmware)
	for _, c := range []Command{
		{Code: "NC", Description: "Diagnostics", Execute: logic.ExecuteNC},
		{Code: "B2", Description: "Echo", Execute: logic.ExecuteB2},
		{Code: "BU", Description: "Generate key check value", Execute: logic.ExecuteBU},
		{Code: "M0", Description: "Encrypt data block", Execute: logic.ExecuteM0},
		{Code: "M2", Description: "Decrypt data block", Execute: logic.ExecuteM2},
		{Code: "M6", Description: "Generate MAC", Execute: logic.ExecuteM6},
		{Code: "JG", Description: "Encrypt PIN block", Execute: logic.ExecuteJG},
		{Code: "JE", Description: "Decrypt PIN block", Execute: logic.ExecuteJE},
		{Code: "CA", Description: "Translate PIN block", Execute: logic.ExecuteCA},
	} {
		d.Register(c)
	}

	return d
}

// Register adds or replaces a command.
func (d *Dispatcher) Register(c Command) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.commands[c.Code] = c
}

// Commands returns the registered commands ordered by code.
func (d *Dispatcher) Commands() []Command {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Command, 0, len(d.commands))
	for _, c := range d.commands {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Command) int {
		return strings.Compare(a.Code, b.Code)
	})

	return out
}

// GetDescription returns the description of cmd, or cmd if it is unknown.
func (d *Dispatcher) GetDescription(cmd string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if c, ok := d.commands[cmd]; ok {
		return c.Description
	}

	return cmd
}

// ExecuteCommand runs cmd over input. NC ignores input and receives the
// firmware version.
func (d *Dispatcher) ExecuteCommand(cmd string, input []byte) ([]byte, error) {
	d.mu.RLock()
	c, ok := d.commands[cmd]
	d.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownCommand
	}

	if cmd == "NC" {
		input = []byte(d.firmware)
	}

	return c.Execute(input)
}

// Handle executes one request message and builds the response. Command
// failures become an error response; only a message without a command code
// returns an error.
func (d *Dispatcher) Handle(data []byte) (Result, error) {
	if len(data) < 2 {
		return Result{}, ErrMalformedRequest
	}

	cmd := string(data[:2])
	res := Result{
		Command:      cmd,
		ResponseCode: IncrementCode(cmd),
		ErrorCode:    errorcodes.Err00.CodeOnly(),
	}

	resp, err := d.ExecuteCommand(cmd, data[2:])
	switch {
	case errors.Is(err, ErrUnknownCommand):
		log.Warn().
			Str("event", "unknown_command").
			Str("command", cmd).
			Msg("command not recognized, responding with error code")
		res.ErrorCode = errorcodes.Err68.CodeOnly()
		res.Response = []byte(res.ResponseCode + res.ErrorCode)
		res.Err = err
	case err != nil:
		code := errorcodes.FromError(err)
		log.Error().
			Str("event", "command_error").
			Str("command", cmd).
			Str("error_code", code.CodeOnly()).
			Err(err).
			Msg("command execution failed")
		res.ErrorCode = code.CodeOnly()
		res.Response = []byte(res.ResponseCode + res.ErrorCode)
		res.Err = err
	default:
		res.Response = resp
	}

	return res, nil
}

// IncrementCode returns the response code for cmd: the second character is
// incremented, Z wraps to A.
func IncrementCode(cmd string) string {
	b := []byte(cmd)
	if len(b) < 2 {
		return cmd
	}
	if b[1] == 'Z' {
		b[1] = 'A'
	} else {
		b[1]++
	}

	return string(b)
}

// String describes the result for logs.
func (r Result) String() string {
	return fmt.Sprintf("%s -> %s%s", r.Command, r.ResponseCode, r.ErrorCode)
}
