package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrInvalidName     = errors.New("player name must not be empty")
	ErrNotHost         = errors.New("player is not the host")
	ErrNotPlaying      = errors.New("no round in progress")
	ErrInvalidAction   = errors.New("invalid action")
	ErrInvalidRequest  = errors.New("invalid request")

	// Turn errors
	ErrNotPlayerTurn = errors.New("not this player's turn")
	ErrTurnExpired   = errors.New("turn time has expired")
	ErrInvalidWord   = errors.New("invalid word")

	// Storage errors
	ErrVersionConflict = errors.New("room was modified concurrently")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
)

// WordRejection tags why the validator refused a word
type WordRejection string

const (
	RejectTooShort          WordRejection = "TooShort"
	RejectInvalidCharacters WordRejection = "InvalidCharacters"
	RejectChainMismatch     WordRejection = "ChainMismatch"
	RejectAlreadyUsed       WordRejection = "AlreadyUsed"
	RejectNotInDictionary   WordRejection = "NotInDictionary"
)

// InvalidWordError is returned when a submitted word breaks a game rule.
// It matches ErrInvalidWord with errors.Is.
type InvalidWordError struct {
	Word   string
	Reason WordRejection
}

func (e *InvalidWordError) Error() string {
	return fmt.Sprintf("invalid word %q: %s", e.Word, e.Reason)
}

// Is reports whether target is ErrInvalidWord
func (e *InvalidWordError) Is(target error) bool {
	return target == ErrInvalidWord
}

// NewInvalidWordError creates an InvalidWordError
func NewInvalidWordError(word string, reason WordRejection) *InvalidWordError {
	return &InvalidWordError{Word: word, Reason: reason}
}
