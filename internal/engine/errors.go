package engine

import (
	"errors"
	"fmt"
)

// RuntimeError reports a lookup of something the loaded snapshot does not
// define. The render path never returns it; the E variants do.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Name is the display, rotation or animation that was requested.
	Name string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownDisplay indicates no display with the requested name.
	ErrCodeUnknownDisplay RuntimeErrorCode = "UNKNOWN_DISPLAY"

	// ErrCodeUnknownRotation indicates no rotation with the requested name.
	ErrCodeUnknownRotation RuntimeErrorCode = "UNKNOWN_ROTATION"

	// ErrCodeUnknownAnimation indicates no animation with the requested id.
	ErrCodeUnknownAnimation RuntimeErrorCode = "UNKNOWN_ANIMATION"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnknownDisplay returns true if the error is an unknown display error.
// Uses errors.As to handle wrapped errors.
func IsUnknownDisplay(err error) bool {
	return hasCode(err, ErrCodeUnknownDisplay)
}

// IsUnknownRotation returns true if the error is an unknown rotation error.
func IsUnknownRotation(err error) bool {
	return hasCode(err, ErrCodeUnknownRotation)
}

// IsUnknownAnimation returns true if the error is an unknown animation error.
func IsUnknownAnimation(err error) bool {
	return hasCode(err, ErrCodeUnknownAnimation)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewUnknownDisplayError creates a RuntimeError for a missing display.
func NewUnknownDisplayError(name string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeUnknownDisplay, Message: "display is not defined", Name: name}
}

// NewUnknownRotationError creates a RuntimeError for a missing rotation.
func NewUnknownRotationError(name string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeUnknownRotation, Message: "rotation is not defined", Name: name}
}

// NewUnknownAnimationError creates a RuntimeError for a missing animation.
func NewUnknownAnimationError(id string) *RuntimeError {
	return &RuntimeError{Code: ErrCodeUnknownAnimation, Message: "animation is not defined", Name: id}
}
