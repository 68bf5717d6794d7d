package apperror

import "errors"

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrIncompleteSessionInfo = errors.New("cannot save result: missing player run or name")
	ErrSessionBusy           = errors.New("session is being updated, try again")
	ErrNotEnoughImages       = errors.New("not enough distinct images to build deck")
	ErrInvalidDeckSize       = errors.New("deck must have at least one pair")
)
