// Package dds wraps the middleware's handle-based native interface with
// owned-resource types: every entity handle has exactly one owner, and the
// owner's Close releases it exactly once. Sample retrieval either copies
// eagerly or confines loaned memory to a callback scope.
package dds

import (
	"log/slog"
	"sync/atomic"

	"github.com/tr-sdv-sandbox/vdr-light/dds/core"
	"github.com/tr-sdv-sandbox/vdr-light/internal/logs"
)

// Release and loan-return failures must not abort teardown, so they are
// reported here instead of returned. Swappable for tests.
var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(logs.FromLevel(slog.LevelInfo))
}

// SetLogger replaces the package logger used for non-fatal release failures.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

func log() *slog.Logger { return logger.Load() }

// invalidHandle is the sentinel stored in released or closed entities.
const invalidHandle = core.RetcodeBadParameter

// Entity owns one middleware handle. The zero value is an invalid entity.
// Go has no move constructor, so ownership transfer is explicit: Release
// extracts the handle and invalidates the source, and the receiver re-owns
// it with NewEntity.
type Entity struct {
	handle core.Handle
}

// NewEntity takes ownership of a freshly created handle. A negative handle
// is the creation failure code and yields a ResourceCreationError.
func NewEntity(handle core.Handle, context string) (Entity, error) {
	if handle < 0 {
		return Entity{handle: invalidHandle}, newResourceCreationError(handle, context)
	}
	return Entity{handle: handle}, nil
}

// Handle returns the owned handle without transferring ownership.
func (e *Entity) Handle() core.Handle { return e.handle }

// Valid reports whether the entity currently owns a live handle.
func (e *Entity) Valid() bool { return e.handle > 0 }

// Release extracts the handle for hand-off to another owner. The entity
// becomes invalid and its Close turns into a no-op.
func (e *Entity) Release() core.Handle {
	h := e.handle
	e.handle = invalidHandle
	return h
}

// Close deletes the owned handle. Safe to call on an invalid entity and safe
// to call twice; a delete failure is logged, never returned, because teardown
// must not fail.
func (e *Entity) Close() {
	if !e.Valid() {
		return
	}
	h := e.handle
	e.handle = invalidHandle
	if rc := core.Delete(h); rc != core.RetcodeOK {
		log().Warn("failed to delete middleware entity",
			"handle", h, "code", rc, "reason", core.Strretcode(rc))
	}
}
