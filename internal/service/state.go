package service

import (
	"errors"
	"fmt"
)

// State is the screen the learner is on
type State string

const (
	StateMenu            State = "menu"
	StateInSession       State = "in_session"
	StateSessionComplete State = "session_complete"
	StateCatalogBrowse   State = "catalog_browse"
)

// Event drives a state transition
type Event string

const (
	EventStartGame    Event = "start_game"
	EventWordAnswered Event = "word_answered"
	EventSessionEnd   Event = "session_end"
	EventReturnToMenu Event = "return_to_menu"
	EventOpenCatalog  Event = "open_catalog"
)

// ErrInvalidTransition is returned for an event not allowed in the current state
var ErrInvalidTransition = errors.New("invalid state transition")

var transitions = map[State]map[Event]State{
	StateMenu: {
		EventStartGame:    StateInSession,
		EventOpenCatalog:  StateCatalogBrowse,
		EventReturnToMenu: StateMenu,
	},
	StateInSession: {
		EventWordAnswered: StateInSession,
		EventSessionEnd:   StateSessionComplete,
		EventReturnToMenu: StateMenu,
	},
	StateSessionComplete: {
		EventStartGame:    StateInSession,
		EventReturnToMenu: StateMenu,
	},
	StateCatalogBrowse: {
		EventOpenCatalog:  StateCatalogBrowse,
		EventReturnToMenu: StateMenu,
	},
}

// Transition returns the state reached from from on ev
func Transition(from State, ev Event) (State, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return from, fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, ev, from)
	}
	return to, nil
}
