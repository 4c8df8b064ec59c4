/*
Package espionage
File: errors.go
Description:
    Error kinds returned by the espionage subsystem. Every failure is a
    local, recoverable error returned synchronously; the engine never
    panics on bad input, and a rejected operation leaves all state
    untouched. Callers match kinds with errors.Is and translate them into
    user-facing notifications (or HTTP statuses, in the server layer).
*/

package espionage

import "errors"

var (
	// ErrNotFound - unknown agent, mission, candidate or company id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState - the operation is not legal for the entity's
	// current lifecycle state (firing an agent OnMission, cancelling an
	// InProgress mission, starting a non-Planning mission...).
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTransition - an agent or mission state-machine edge that
	// is not in the transition graph.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidAgent - mission creation precondition: the agent must be
	// Available.
	ErrInvalidAgent = errors.New("invalid agent")

	// ErrInvalidTarget - mission creation precondition: the target
	// company must exist.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrValidation - out-of-range configuration values (security level
	// outside 1-5, negative budget...).
	ErrValidation = errors.New("validation error")
)
