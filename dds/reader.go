package dds

import (
	"time"

	"github.com/tr-sdv-sandbox/vdr-light/dds/core"
)

// Reader subscribes to one topic. It owns two handles: the reader itself and
// a private waitset attached at construction, whose lifetime is tied to the
// reader. Wait is the layer's only blocking call.
//
// Take copies samples before the loan goes back, so its results never alias
// middleware memory. TakeEach runs the callback while the loan is held and
// is the right choice when the callback wants the sample in place.
type Reader[T any] struct {
	entity  Entity
	waitset Entity
	topic   string
}

// NewReader creates a subscription endpoint plus its waitset. Both are torn
// down if any construction step fails, so no partially built reader escapes.
func NewReader[T any](p *Participant, topic *Topic[T], qos *QosBuilder) (*Reader[T], error) {
	entity, err := NewEntity(
		core.CreateReader(p.Handle(), topic.Handle(), qos.policy()),
		"create reader for "+topic.Name())
	if err != nil {
		return nil, err
	}

	waitset, err := NewEntity(core.CreateWaitset(p.Handle()), "create waitset for "+topic.Name())
	if err != nil {
		entity.Close()
		return nil, err
	}

	if rc := core.WaitsetAttach(waitset.Handle(), entity.Handle(), 0); rc != core.RetcodeOK {
		waitset.Close()
		entity.Close()
		return nil, newResourceCreationError(rc, "attach waitset for "+topic.Name())
	}

	log().Info("created reader", "topic", topic.Name())
	return &Reader[T]{entity: entity, waitset: waitset, topic: topic.Name()}, nil
}

// Wait blocks until data is available on this reader or the timeout elapses.
// Returns false on timeout; a failed poll is a WaitError, distinct from a
// timeout. There is no cancellation beyond the timeout itself.
func (r *Reader[T]) Wait(timeout time.Duration) (bool, error) {
	rc := core.WaitsetWait(r.waitset.Handle(), timeout)
	if rc < 0 {
		return false, newWaitError(rc, "wait "+r.topic)
	}
	return rc > 0, nil
}

// Take removes up to max samples from the cache and returns caller-owned
// copies, skipping disposal entries that carry no data. The loan is returned
// before Take does, on success and on error, so no reference to middleware
// memory survives the call.
func (r *Reader[T]) Take(max int) ([]T, error) {
	return r.collect(max, core.Take, "take")
}

// Read is Take without removal: samples stay in the cache.
func (r *Reader[T]) Read(max int) ([]T, error) {
	return r.collect(max, core.Read, "read")
}

func (r *Reader[T]) collect(max int, retrieve func(core.Handle, int) ([]any, []core.SampleInfo, int32), op string) ([]T, error) {
	samples, infos, n := retrieve(r.entity.Handle(), max)
	if n < 0 {
		return nil, newRetrievalError(n, op+" "+r.topic)
	}
	if n == 0 {
		return nil, nil
	}
	defer r.returnLoan(samples)

	results := make([]T, 0, n)
	for i := 0; i < int(n); i++ {
		if !infos[i].ValidData || samples[i] == nil {
			continue
		}
		if v, ok := samples[i].(*T); ok {
			results = append(results, *v)
		}
	}
	return results, nil
}

// TakeEach removes up to max samples and invokes fn once per valid sample,
// in delivery order, while the loan is still held. The loan is returned once
// every callback completes, even if one of them panics. Returns the number
// of samples visited.
func (r *Reader[T]) TakeEach(fn func(*T), max int) (int, error) {
	samples, infos, n := core.Take(r.entity.Handle(), max)
	if n < 0 {
		return 0, newRetrievalError(n, "take "+r.topic)
	}
	if n == 0 {
		return 0, nil
	}
	defer r.returnLoan(samples)

	visited := 0
	for i := 0; i < int(n); i++ {
		if !infos[i].ValidData || samples[i] == nil {
			continue
		}
		if v, ok := samples[i].(*T); ok {
			fn(v)
			visited++
		}
	}
	return visited, nil
}

// returnLoan gives the loan back. A failure here is logged and swallowed so
// it never masks the error that may already be propagating.
func (r *Reader[T]) returnLoan(samples []any) {
	if rc := core.ReturnLoan(r.entity.Handle(), samples); rc != core.RetcodeOK {
		log().Warn("failed to return sample loan",
			"topic", r.topic, "code", rc, "reason", core.Strretcode(rc))
	}
}

func (r *Reader[T]) Handle() core.Handle { return r.entity.Handle() }

// Close releases the waitset first so any concurrent Wait unblocks, then the
// reader handle. Idempotent.
func (r *Reader[T]) Close() {
	r.waitset.Close()
	r.entity.Close()
}
