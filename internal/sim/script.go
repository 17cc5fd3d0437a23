// Package sim replays scripted operation sequences against a vending
// machine session.
package sim

import (
	"errors"
	"fmt"

	"github.com/fairyhunter13/vending-machine-simulator/internal/coin"
	"github.com/fairyhunter13/vending-machine-simulator/internal/config"
)

// ErrInvalidStep is returned for a step that names zero or several actions
// or an unknown coin.
var ErrInvalidStep = errors.New("invalid step")

// Action is the operation a step performs.
type Action string

const (
	ActionInsert Action = "insert"
	ActionSelect Action = "select"
	ActionReset  Action = "reset"
)

// Step is one customer action. Exactly one field is set.
type Step struct {
	Insert []int  `yaml:"insert,omitempty"`
	Select string `yaml:"select,omitempty"`
	Reset  bool   `yaml:"reset,omitempty"`
}

// Script is an ordered list of steps.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Action returns what the step does.
func (s Step) Action() (Action, error) {
	var set []Action
	if len(s.Insert) > 0 {
		set = append(set, ActionInsert)
	}
	if s.Select != "" {
		set = append(set, ActionSelect)
	}
	if s.Reset {
		set = append(set, ActionReset)
	}
	if len(set) != 1 {
		return "", fmt.Errorf("%w: want exactly one of insert, select, reset, got %d", ErrInvalidStep, len(set))
	}
	return set[0], nil
}

// Coins converts the insert list.
func (s Step) Coins() (coin.Coins, error) {
	ds := make([]coin.Denomination, 0, len(s.Insert))
	for _, v := range s.Insert {
		d, err := coin.ParseDenomination(v)
		if err != nil {
			return coin.Coins{}, fmt.Errorf("%w: %w", ErrInvalidStep, err)
		}
		ds = append(ds, d)
	}
	return coin.Of(ds...), nil
}

// Validate checks every step.
func (s Script) Validate() error {
	for i, st := range s.Steps {
		a, err := st.Action()
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if a == ActionInsert {
			if _, err := st.Coins(); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
	}
	return nil
}

// LoadScript reads and validates a YAML script file.
func LoadScript(path string) (Script, error) {
	data, err := config.ReadYAML(path)
	if err != nil {
		return Script{}, err
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := config.DecodeStrict(data, &s); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// DemoScript walks through a sale with change, a short payment topped up,
// an unknown product, a reset and a sale paid exactly.
func DemoScript() Script {
	return Script{Steps: []Step{
		{Insert: []int{50}},
		{Select: "Water"},
		{Insert: []int{50}},
		{Select: "Pepsi"},
		{Insert: []int{10}},
		{Select: "Pepsi"},
		{Insert: []int{20, 20}},
		{Select: "Fanta"},
		{Reset: true},
		{Insert: []int{20, 10, 5}},
		{Select: "KitKat"},
	}}
}
