package sim

import "errors"

var (
	// ErrInterrupted is returned from a wait when its task has been interrupted.
	// Once a task is interrupted every later wait returns it immediately.
	ErrInterrupted = errors.New("sim: task interrupted")

	// ErrReneged is returned by Task.RequestWithin when the patience deadline
	// is reached before the resource is granted.
	ErrReneged = errors.New("sim: request deadline reached before grant")
)
