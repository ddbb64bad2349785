package bootstrap

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContentLoader fails the bundle and material steps.
	ErrNoContentLoader = errors.New("host has no content loader")
	// ErrNoCommandDispatcher fails the command parser step.
	ErrNoCommandDispatcher = errors.New("host has no monitor command dispatcher")
	// ErrNoScriptRunner fails the robot type step.
	ErrNoScriptRunner = errors.New("host has no script runner")
)

// StepError reports the step a bootstrap run failed in.
type StepError struct {
	Step int
	Name string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("bootstrap step %d (%s): %v", e.Step, e.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
