// Package bridge maintains the event channel to the external controller:
// a long-lived SSE subscription that decodes inbound events into typed
// commands and recovers from transport failures on a fixed timer.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benchview/benchview/internal/domain/entity"
)

// Command is the sealed set of instructions the controller can deliver
// over the event channel. The dispatcher switches on the concrete type;
// there is exactly one delivery entry point, not a callback slot per kind.
type Command interface {
	kind() string
}

// SetURL navigates the panel and makes it visible.
type SetURL struct {
	URL string
}

// TogglePanel flips panel visibility.
type TogglePanel struct{}

// TriggerStep advances the external repair flow to a named step.
type TriggerStep struct {
	Step string
}

// SetLayout adjusts dock side and/or workspace split. Nil fields were
// absent from the wire event and leave the current value alone.
type SetLayout struct {
	DockSide       *entity.DockSide
	WorkspaceSplit *float64
}

// SetMockMode switches the shell between the real controller endpoint and
// the built-in simulator.
type SetMockMode struct {
	Enabled bool
}

// SetBridgeEndpoint repoints the event channel at a new controller.
type SetBridgeEndpoint struct {
	Endpoint string
}

func (SetURL) kind() string            { return "setUrl" }
func (TogglePanel) kind() string       { return "togglePanel" }
func (TriggerStep) kind() string       { return "triggerStep" }
func (SetLayout) kind() string         { return "setLayout" }
func (SetMockMode) kind() string       { return "setMockMode" }
func (SetBridgeEndpoint) kind() string { return "setBridgeEndpoint" }

// CommandName reports the wire type of a command, e.g. "setUrl".
func CommandName(cmd Command) string {
	if cmd == nil {
		return ""
	}
	return cmd.kind()
}

// CommandNames lists every wire type the channel understands, in a stable
// order. The simulator serves this as its action listing.
func CommandNames() []string {
	return []string{
		SetURL{}.kind(),
		TogglePanel{}.kind(),
		TriggerStep{}.kind(),
		SetLayout{}.kind(),
		SetMockMode{}.kind(),
		SetBridgeEndpoint{}.kind(),
	}
}

// ErrUnknownCommand marks events whose type is unrecognized or whose
// required payload field is missing. Receivers log and drop these without
// touching the connection.
var ErrUnknownCommand = errors.New("unknown command")

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeCommand parses one event payload into a Command.
//
// Malformed JSON and unknown or incomplete commands come back as errors;
// both are drop-and-log conditions for the caller, never a reason to close
// the channel.
func DecodeCommand(data []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed event: %w", err)
	}

	switch env.Type {
	case "setUrl":
		var p struct {
			URL *string `json:"url"`
		}
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		if p.URL == nil {
			return nil, fmt.Errorf("%w: setUrl without url", ErrUnknownCommand)
		}
		return SetURL{URL: *p.URL}, nil

	case "togglePanel":
		return TogglePanel{}, nil

	case "triggerStep":
		var p struct {
			Step *string `json:"step"`
		}
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		if p.Step == nil {
			return nil, fmt.Errorf("%w: triggerStep without step", ErrUnknownCommand)
		}
		return TriggerStep{Step: *p.Step}, nil

	case "setLayout":
		var p struct {
			DockSide       *string  `json:"dockSide"`
			WorkspaceSplit *float64 `json:"workspaceSplit"`
		}
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		cmd := SetLayout{WorkspaceSplit: p.WorkspaceSplit}
		if p.DockSide != nil {
			side, ok := entity.ParseDockSide(*p.DockSide)
			if !ok {
				return nil, fmt.Errorf("%w: setLayout with dockSide %q", ErrUnknownCommand, *p.DockSide)
			}
			cmd.DockSide = &side
		}
		return cmd, nil

	case "setMockMode":
		var p struct {
			Enabled *bool `json:"enabled"`
		}
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		if p.Enabled == nil {
			return nil, fmt.Errorf("%w: setMockMode without enabled", ErrUnknownCommand)
		}
		return SetMockMode{Enabled: *p.Enabled}, nil

	case "setBridgeEndpoint":
		var p struct {
			Endpoint *string `json:"endpoint"`
		}
		if err := decodePayload(env.Payload, &p); err != nil {
			return nil, err
		}
		if p.Endpoint == nil {
			return nil, fmt.Errorf("%w: setBridgeEndpoint without endpoint", ErrUnknownCommand)
		}
		return SetBridgeEndpoint{Endpoint: *p.Endpoint}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Type)
}

func decodePayload(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		// Absent payload decodes as all-nil fields; required-field checks
		// in the caller turn that into ErrUnknownCommand.
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return nil
}

// EncodeCommand renders a command as the wire envelope DecodeCommand
// accepts. The simulator uses it to publish events; production controllers
// produce the same shape independently.
func EncodeCommand(cmd Command) ([]byte, error) {
	var payload any
	switch c := cmd.(type) {
	case SetURL:
		payload = map[string]string{"url": c.URL}
	case TogglePanel:
		// No payload on the wire.
	case TriggerStep:
		payload = map[string]string{"step": c.Step}
	case SetLayout:
		p := make(map[string]any, 2)
		if c.DockSide != nil {
			p["dockSide"] = string(*c.DockSide)
		}
		if c.WorkspaceSplit != nil {
			p["workspaceSplit"] = *c.WorkspaceSplit
		}
		payload = p
	case SetMockMode:
		payload = map[string]bool{"enabled": c.Enabled}
	case SetBridgeEndpoint:
		payload = map[string]string{"endpoint": c.Endpoint}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	env := struct {
		Type    string `json:"type"`
		Payload any    `json:"payload,omitempty"`
	}{Type: cmd.kind(), Payload: payload}
	return json.Marshal(env)
}
