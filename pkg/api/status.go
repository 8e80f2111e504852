package api

import (
	"errors"

	"goxviet/internal/engine"
	"goxviet/internal/shortcut"
)

// Status is the result of every boundary call. Composite results are
// written through caller-owned pointers; only the status is returned.
type Status int32

const (
	Success            Status = 0
	ErrorNullPointer   Status = -1
	ErrorInvalidEngine Status = -2
	ErrorProcessing    Status = -10
	ErrorCapacity      Status = -30
	ErrorExists        Status = -31
	ErrorNotFound      Status = -32
	ErrorPanic         Status = -99
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case ErrorNullPointer:
		return "null pointer"
	case ErrorInvalidEngine:
		return "invalid engine"
	case ErrorProcessing:
		return "processing error"
	case ErrorCapacity:
		return "shortcut table full"
	case ErrorExists:
		return "shortcut exists"
	case ErrorNotFound:
		return "shortcut not found"
	case ErrorPanic:
		return "panic"
	default:
		return "unknown status"
	}
}

func (s Status) OK() bool { return s == Success }

func statusOf(err error) Status {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, engine.ErrInvalidState):
		return ErrorInvalidEngine
	case errors.Is(err, shortcut.ErrCapacity):
		return ErrorCapacity
	case errors.Is(err, shortcut.ErrExists):
		return ErrorExists
	case errors.Is(err, shortcut.ErrNotFound):
		return ErrorNotFound
	default:
		return ErrorProcessing
	}
}
