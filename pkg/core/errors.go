package core

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of action failure reasons.
type ErrorKind uint8

const (
	KindInternal ErrorKind = iota
	KindNotEnoughEnergon
	KindNotEnoughResources
	KindCantMoveThere
	KindAlreadyActive
	KindCantSenseThat
	KindOutOfRange
	KindInsufficientRoomInCargo
	KindNoRobotThere
	KindNoRoomInChassis
	KindWrongRobotType
	KindCantBuildThat
)

var kindNames = [...]string{
	"INTERNAL_ERROR",
	"NOT_ENOUGH_ENERGON",
	"NOT_ENOUGH_RESOURCES",
	"CANT_MOVE_THERE",
	"ALREADY_ACTIVE",
	"CANT_SENSE_THAT",
	"OUT_OF_RANGE",
	"INSUFFICIENT_ROOM_IN_CARGO",
	"NO_ROBOT_THERE",
	"NO_ROOM_IN_CHASSIS",
	"WRONG_ROBOT_TYPE",
	"CANT_BUILD_THAT",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// ActionError reports why an action was rejected. Every kind except
// KindInternal is an expected outcome returned to the agent; KindInternal
// marks a broken engine invariant.
type ActionError struct {
	Kind ErrorKind
	Msg  string
}

func (e *ActionError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is matches any ActionError of the same kind, so the sentinels below work
// with errors.Is regardless of message.
func (e *ActionError) Is(target error) bool {
	t, ok := target.(*ActionError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInternal                = &ActionError{Kind: KindInternal}
	ErrNotEnoughEnergon        = &ActionError{Kind: KindNotEnoughEnergon}
	ErrNotEnoughResources      = &ActionError{Kind: KindNotEnoughResources}
	ErrCantMoveThere           = &ActionError{Kind: KindCantMoveThere}
	ErrAlreadyActive           = &ActionError{Kind: KindAlreadyActive}
	ErrCantSenseThat           = &ActionError{Kind: KindCantSenseThat}
	ErrOutOfRange              = &ActionError{Kind: KindOutOfRange}
	ErrInsufficientRoomInCargo = &ActionError{Kind: KindInsufficientRoomInCargo}
	ErrNoRobotThere            = &ActionError{Kind: KindNoRobotThere}
	ErrNoRoomInChassis         = &ActionError{Kind: KindNoRoomInChassis}
	ErrWrongRobotType          = &ActionError{Kind: KindWrongRobotType}
	ErrCantBuildThat           = &ActionError{Kind: KindCantBuildThat}
)

// NewActionError builds an ActionError with a formatted message.
func NewActionError(kind ErrorKind, format string, args ...any) *ActionError {
	return &ActionError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Internalf builds an internal engine fault.
func Internalf(format string, args ...any) *ActionError {
	return NewActionError(KindInternal, format, args...)
}

// IsInternal reports whether err is or wraps an internal engine fault.
func IsInternal(err error) bool {
	var ae *ActionError
	return errors.As(err, &ae) && ae.Kind == KindInternal
}
