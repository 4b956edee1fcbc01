package vdr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Record is one offboarded payload persisted for later readout.
type Record struct {
	Topic      string `json:"topic"`
	StoredAtNS int64  `json:"stored_at_ns"`
	Payload    []byte `json:"payload"`
}

// RecordRepository persists offboarded payloads in BadgerDB. Keys are
// "record:<topic>:<stored-at-ns>:<counter>" so iteration yields per-topic
// arrival order.
type RecordRepository struct {
	db      *badger.DB
	log     *slog.Logger
	counter atomic.Uint64
}

func NewRecordRepository(db *badger.DB, log *slog.Logger) *RecordRepository {
	return &RecordRepository{db: db, log: log}
}

func (r *RecordRepository) Store(topic string, payload []byte) error {
	record := Record{
		Topic:      topic,
		StoredAtNS: time.Now().UnixNano(),
		Payload:    payload,
	}
	key := fmt.Sprintf("record:%s:%020d:%010d", topic, record.StoredAtNS, r.counter.Add(1))

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// List returns up to limit records for one topic, in storage order. An empty
// topic lists across all topics.
func (r *RecordRepository) List(topic string, limit int) ([]Record, error) {
	prefix := []byte("record:")
	if topic != "" {
		prefix = []byte("record:" + topic + ":")
	}

	var records []Record
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.PrefetchSize = limit

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(records) < limit; it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var record Record
				if err := json.Unmarshal(v, &record); err != nil {
					return fmt.Errorf("failed to decode record: %w", err)
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}

// CountByTopic tallies stored records per topic without loading values.
func (r *RecordRepository) CountByTopic() (map[string]int, error) {
	counts := make(map[string]int)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte("record:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			// Key layout is record:<topic>:<ts>:<counter>; topic names use
			// '/' separators, never ':'.
			parts := strings.SplitN(string(it.Item().Key()), ":", 3)
			if len(parts) < 3 {
				continue
			}
			counts[parts[1]]++
		}
		return nil
	})
	return counts, err
}

// RecordSink adapts the repository to the Sink interface.
type RecordSink struct {
	repository *RecordRepository
}

func NewRecordSink(repository *RecordRepository) RecordSink {
	return RecordSink{repository: repository}
}

func (s RecordSink) Publish(_ context.Context, topic string, payload []byte) error {
	return s.repository.Store(topic, payload)
}
