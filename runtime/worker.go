// Package runtime supervises the long-running workers of the probes and the
// readout: each worker runs in its own goroutine, panics are recovered and
// crashed workers are restarted until the context ends.
package runtime

import (
	"context"
	"errors"
	"reflect"
)

// ErrWorkerPanic is the error a supervised worker reports when its Run
// method panicked.
var ErrWorkerPanic = errors.New("worker panic")

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerName uses reflection to retrieve the type name of the worker, used
// for logging and supervision without requiring manual naming.
func WorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
