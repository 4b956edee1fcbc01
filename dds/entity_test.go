package dds

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tr-sdv-sandbox/vdr-light/dds/core"
)

func TestNewEntityRejectsNegativeHandle(t *testing.T) {
	req := require.New(t)

	entity, err := NewEntity(core.RetcodeOutOfResources, "create probe endpoint")
	req.Error(err)
	req.False(entity.Valid())

	var creation ResourceCreationError
	req.ErrorAs(err, &creation)
	req.Equal(core.RetcodeOutOfResources, creation.Code)
	req.Contains(err.Error(), "create probe endpoint")
	req.Contains(err.Error(), "Out Of Resources")
}

func TestEntityReleaseTransfersOwnership(t *testing.T) {
	req := require.New(t)

	source, err := NewEntity(core.CreateParticipant(DomainDefault, nil), "create participant")
	req.NoError(err)
	original := source.Handle()
	req.True(source.Valid())

	// Hand-off: the destination holds the original value, the source is
	// invalid and its Close no longer touches the handle.
	destination, err := NewEntity(source.Release(), "adopt participant")
	req.NoError(err)
	req.False(source.Valid())
	req.True(destination.Valid())
	req.Equal(original, destination.Handle())

	source.Close() // no-op
	req.True(destination.Valid())

	destination.Close()
	req.False(destination.Valid())
}

func TestEntityCloseIsIdempotent(t *testing.T) {
	req := require.New(t)

	entity, err := NewEntity(core.CreateParticipant(DomainDefault, nil), "create participant")
	req.NoError(err)
	handle := entity.Handle()

	entity.Close()
	req.False(entity.Valid())

	// The handle is gone after the first close; the second must not reach
	// the middleware at all.
	req.Equal(core.RetcodeAlreadyDeleted, core.Delete(handle))
	entity.Close()
}

func TestZeroEntityIsInvalid(t *testing.T) {
	req := require.New(t)

	var entity Entity
	req.False(entity.Valid())
	entity.Close()
	req.False(entity.Valid())
}
