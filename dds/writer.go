package dds

import (
	"time"

	"github.com/tr-sdv-sandbox/vdr-light/dds/core"
)

// Writer publishes samples of type T on one topic, bound at construction.
type Writer[T any] struct {
	entity Entity
	topic  string
}

// NewWriter creates a publication endpoint. A nil qos inherits the topic's
// policy.
func NewWriter[T any](p *Participant, topic *Topic[T], qos *QosBuilder) (*Writer[T], error) {
	entity, err := NewEntity(
		core.CreateWriter(p.Handle(), topic.Handle(), qos.policy()),
		"create writer for "+topic.Name())
	if err != nil {
		return nil, err
	}
	log().Info("created writer", "topic", topic.Name())
	return &Writer[T]{entity: entity, topic: topic.Name()}, nil
}

// Write publishes one sample. The middleware stamps it with the arrival
// time; use WriteTS to order by origin time instead.
func (w *Writer[T]) Write(sample T) error {
	if rc := core.Write(w.entity.Handle(), &sample); rc != core.RetcodeOK {
		return newPublishError(rc, "write "+w.topic)
	}
	return nil
}

// WriteTS publishes one sample with an explicit source timestamp
// (nanoseconds since epoch).
func (w *Writer[T]) WriteTS(sample T, ts time.Time) error {
	if rc := core.WriteTS(w.entity.Handle(), &sample, ts.UnixNano()); rc != core.RetcodeOK {
		return newPublishError(rc, "write_ts "+w.topic)
	}
	return nil
}

func (w *Writer[T]) Handle() core.Handle { return w.entity.Handle() }

func (w *Writer[T]) Close() { w.entity.Close() }
