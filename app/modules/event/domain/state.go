package eventdomain

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of an event.
type State string

const (
	StateDraft  State = "draft"
	StateActive State = "active"
	StateLive   State = "live"
	StatePaused State = "paused"
	StateEnded  State = "ended"
)

// PublicStates are the states in which an event is listed to players.
var PublicStates = []State{StateActive, StateLive, StatePaused}

// transitions is the lifecycle graph: draft -> active -> live <-> paused -> ended.
var transitions = map[State][]State{
	StateDraft:  {StateActive},
	StateActive: {StateLive},
	StateLive:   {StatePaused, StateEnded},
	StatePaused: {StateLive, StateEnded},
	StateEnded:  nil,
}

// IsValid checks if the state is a known value.
func (s State) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsPublic reports whether events in this state are visible to players.
func (s State) IsPublic() bool {
	for _, p := range PublicStates {
		if s == p {
			return true
		}
	}
	return false
}

// IsInitial reports whether an event may be created in this state.
func (s State) IsInitial() bool {
	return s == StateDraft || s == StateActive
}

// CanTransitionTo reports whether moving from s to next follows the lifecycle graph.
// Staying in the same state is not a transition and returns false.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStates returns the states reachable from s in one step.
func (s State) NextStates() []State {
	out := make([]State, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// ParseState normalises and validates a state name.
func ParseState(raw string) (State, error) {
	s := State(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown event state %q", raw)
	}
	return s, nil
}

// NormalizeCode trims and uppercases a human-entered event code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
