package dds

import "github.com/tr-sdv-sandbox/vdr-light/dds/core"

// Descriptor is the schema-identity token of a sample type. Two topics with
// the same name in a domain must agree on it.
type Descriptor string

// Topic binds a sample type T, its descriptor and a name inside a
// participant's domain. All three bindings are fixed at construction.
type Topic[T any] struct {
	entity      Entity
	participant *Participant
	name        string
}

// NewTopic creates or looks up the named topic. Fails with
// ResourceCreationError when the name is malformed or an existing topic of
// that name carries a different descriptor.
func NewTopic[T any](p *Participant, descriptor Descriptor, name string, qos *QosBuilder) (*Topic[T], error) {
	entity, err := NewEntity(
		core.CreateTopic(p.Handle(), string(descriptor), name, qos.policy()),
		"create topic "+name)
	if err != nil {
		return nil, err
	}
	log().Info("created topic", "name", name)
	return &Topic[T]{entity: entity, participant: p, name: name}, nil
}

func (t *Topic[T]) Handle() core.Handle { return t.entity.Handle() }

// Name returns the topic name, for diagnostics.
func (t *Topic[T]) Name() string { return t.name }

func (t *Topic[T]) Close() { t.entity.Close() }
