package vdr

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordRepositoryStoreAndList(t *testing.T) {
	req := require.New(t)

	repo := NewRecordRepository(setupTestDB(t), testLogger())

	req.NoError(repo.Store(OffboardVSSSignals, []byte(`{"path":"Vehicle.Speed"}`)))
	req.NoError(repo.Store(OffboardVSSSignals, []byte(`{"path":"Vehicle.Speed2"}`)))
	req.NoError(repo.Store(OffboardEvents, []byte(`{"event_id":"e1"}`)))

	signals, err := repo.List(OffboardVSSSignals, 10)
	req.NoError(err)
	req.Len(signals, 2)
	req.Equal(OffboardVSSSignals, signals[0].Topic)
	req.JSONEq(`{"path":"Vehicle.Speed"}`, string(signals[0].Payload))
	req.JSONEq(`{"path":"Vehicle.Speed2"}`, string(signals[1].Payload))

	all, err := repo.List("", 10)
	req.NoError(err)
	req.Len(all, 3)

	limited, err := repo.List("", 2)
	req.NoError(err)
	req.Len(limited, 2)
}

func TestRecordRepositoryCountByTopic(t *testing.T) {
	req := require.New(t)

	repo := NewRecordRepository(setupTestDB(t), testLogger())

	for i := 0; i < 3; i++ {
		req.NoError(repo.Store(OffboardGauges, []byte(`{}`)))
	}
	req.NoError(repo.Store(OffboardLogs, []byte(`{}`)))

	counts, err := repo.CountByTopic()
	req.NoError(err)
	req.Equal(3, counts[OffboardGauges])
	req.Equal(1, counts[OffboardLogs])
}

func TestRecordSinkPersists(t *testing.T) {
	req := require.New(t)

	repo := NewRecordRepository(setupTestDB(t), testLogger())
	sink := NewRecordSink(repo)

	req.NoError(sink.Publish(context.Background(), OffboardCounters, []byte(`{"name":"frames"}`)))

	records, err := repo.List(OffboardCounters, 10)
	req.NoError(err)
	req.Len(records, 1)
	req.JSONEq(`{"name":"frames"}`, string(records[0].Payload))
}
