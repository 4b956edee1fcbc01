package dds

import (
	"fmt"

	"github.com/tr-sdv-sandbox/vdr-light/dds/core"
)

// Error carries the middleware return code and the operation that failed.
// The concrete error types below embed it so callers can branch on the
// failure class with errors.As while still reading the numeric code.
type Error struct {
	Code    core.ReturnCode
	Context string
}

func (e Error) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("middleware error %d (%s)", e.Code, core.Strretcode(e.Code))
	}
	return fmt.Sprintf("%s: middleware error %d (%s)", e.Context, e.Code, core.Strretcode(e.Code))
}

// middlewareError aliases Error for embedding: a field literally named Error
// would shadow the promoted Error method and break the error interface.
type middlewareError = Error

// ResourceCreationError reports that an entity creation primitive returned an
// invalid handle. No partially built entity survives it.
type ResourceCreationError struct{ middlewareError }

// PublishError reports a rejected write.
type PublishError struct{ middlewareError }

// RetrievalError reports a rejected take or read.
type RetrievalError struct{ middlewareError }

// WaitError reports a failed wait call, distinct from a timeout.
type WaitError struct{ middlewareError }

func newResourceCreationError(code core.ReturnCode, context string) error {
	return ResourceCreationError{Error{Code: code, Context: context}}
}

func newPublishError(code core.ReturnCode, context string) error {
	return PublishError{Error{Code: code, Context: context}}
}

func newRetrievalError(code core.ReturnCode, context string) error {
	return RetrievalError{Error{Code: code, Context: context}}
}

func newWaitError(code core.ReturnCode, context string) error {
	return WaitError{Error{Code: code, Context: context}}
}
