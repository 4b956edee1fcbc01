package core

import (
	"strings"
	"sync"
)

type entityKind int

const (
	kindParticipant entityKind = iota
	kindTopic
	kindWriter
	kindReader
	kindWaitset
)

// SampleInfo describes one retrieved cache entry. Entries with ValidData
// false are disposal notifications and carry no sample data.
type SampleInfo struct {
	ValidData       bool
	SourceTimestamp int64
}

type cacheEntry struct {
	data any
	info SampleInfo
}

type entity struct {
	handle Handle
	kind   entityKind
	parent Handle // owning participant, 0 for participants
	domain uint32
	qos    *Qos

	// topic
	name       string
	descriptor string

	// writer, reader
	topic Handle

	// writer: retained history for transient-local late joiners
	retained []cacheEntry

	// reader
	cache    []cacheEntry
	loan     []any
	waitsets []Handle

	// waitset
	attachments map[Handle]int32
	signal      chan struct{}
	deleted     chan struct{}
}

// Process-global registry. Handles are allocated monotonically and never
// reused, so a handle is unique for the lifetime of the process.
var reg = struct {
	sync.Mutex
	entities map[Handle]*entity
	next     Handle
}{
	entities: make(map[Handle]*entity),
	next:     1,
}

func addLocked(e *entity) Handle {
	e.handle = reg.next
	reg.next++
	reg.entities[e.handle] = e
	return e.handle
}

func lookupLocked(h Handle, kind entityKind) (*entity, ReturnCode) {
	if h <= 0 {
		return nil, RetcodeBadParameter
	}
	e, ok := reg.entities[h]
	if !ok {
		return nil, RetcodeAlreadyDeleted
	}
	if e.kind != kind {
		return nil, RetcodeBadParameter
	}
	return e, RetcodeOK
}

// CreateParticipant joins a domain. Returns the participant handle, or a
// negative return code.
func CreateParticipant(domain uint32, qos *Qos) Handle {
	reg.Lock()
	defer reg.Unlock()
	return addLocked(&entity{
		kind:   kindParticipant,
		domain: domain,
		qos:    qos.clone(),
	})
}

func validTopicName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r <= ' ' || r == 0x7f {
			return false
		}
	}
	return true
}

// CreateTopic binds a type descriptor and a name inside a participant's
// domain. A same-name topic in the domain with a different descriptor fails
// with RetcodeInconsistentPolicy.
func CreateTopic(participant Handle, descriptor, name string, qos *Qos) Handle {
	reg.Lock()
	defer reg.Unlock()

	p, rc := lookupLocked(participant, kindParticipant)
	if rc < 0 {
		return rc
	}
	if descriptor == "" || !validTopicName(name) {
		return RetcodeBadParameter
	}
	for _, e := range reg.entities {
		if e.kind == kindTopic && e.domain == p.domain && e.name == name {
			if e.descriptor != descriptor {
				return RetcodeInconsistentPolicy
			}
		}
	}
	return addLocked(&entity{
		kind:       kindTopic,
		parent:     p.handle,
		domain:     p.domain,
		qos:        qos.clone(),
		name:       name,
		descriptor: descriptor,
	})
}

// entityQosLocked resolves the effective policy: a nil creation qos inherits
// the topic's.
func entityQosLocked(qos *Qos, topic *entity) *Qos {
	if qos == nil {
		return topic.qos.clone()
	}
	return qos.clone()
}

func endpointPreconditionsLocked(participant, topic Handle) (*entity, *entity, ReturnCode) {
	p, rc := lookupLocked(participant, kindParticipant)
	if rc < 0 {
		return nil, nil, rc
	}
	t, rc := lookupLocked(topic, kindTopic)
	if rc < 0 {
		return nil, nil, rc
	}
	if t.domain != p.domain {
		return nil, nil, RetcodePreconditionNotMet
	}
	return p, t, RetcodeOK
}

// CreateWriter creates a publication endpoint on a topic.
func CreateWriter(participant, topic Handle, qos *Qos) Handle {
	reg.Lock()
	defer reg.Unlock()

	p, t, rc := endpointPreconditionsLocked(participant, topic)
	if rc < 0 {
		return rc
	}
	return addLocked(&entity{
		kind:   kindWriter,
		parent: p.handle,
		domain: p.domain,
		qos:    entityQosLocked(qos, t),
		topic:  t.handle,
		name:   t.name,
	})
}

// CreateReader creates a subscription endpoint on a topic. Transient-local
// writers on the same topic replay their retained history to the new reader
// when it also requests transient-local durability.
func CreateReader(participant, topic Handle, qos *Qos) Handle {
	reg.Lock()
	defer reg.Unlock()

	p, t, rc := endpointPreconditionsLocked(participant, topic)
	if rc < 0 {
		return rc
	}
	r := &entity{
		kind:   kindReader,
		parent: p.handle,
		domain: p.domain,
		qos:    entityQosLocked(qos, t),
		topic:  t.handle,
		name:   t.name,
	}
	h := addLocked(r)

	if r.qos.Durability == DurabilityTransientLocal {
		for _, w := range reg.entities {
			if w.kind != kindWriter || w.domain != r.domain || w.name != r.name {
				continue
			}
			if w.qos.Durability != DurabilityTransientLocal || !compatible(w.qos, r.qos) {
				continue
			}
			for _, entry := range w.retained {
				depositLocked(r, entry)
			}
		}
	}
	return h
}

// Delete releases an entity handle. Deleting a participant deletes every
// entity it owns, so endpoints orphaned this way report RetcodeAlreadyDeleted
// on later use. Unknown positive handles also report RetcodeAlreadyDeleted.
func Delete(h Handle) ReturnCode {
	reg.Lock()
	defer reg.Unlock()

	if h <= 0 {
		return RetcodeBadParameter
	}
	e, ok := reg.entities[h]
	if !ok {
		return RetcodeAlreadyDeleted
	}
	deleteLocked(e)
	return RetcodeOK
}

func deleteLocked(e *entity) {
	switch e.kind {
	case kindParticipant:
		for _, child := range reg.entities {
			if child.parent == e.handle {
				deleteLocked(child)
			}
		}
	case kindReader:
		for _, wsh := range e.waitsets {
			if ws, ok := reg.entities[wsh]; ok {
				delete(ws.attachments, e.handle)
			}
		}
	case kindWaitset:
		close(e.deleted)
	}
	delete(reg.entities, e.handle)
}

// entityCount reports the registry size, for leak checks in tests.
func entityCount() int {
	reg.Lock()
	defer reg.Unlock()
	return len(reg.entities)
}

// DescribeHandle returns a short diagnostic for a handle, e.g. "reader rt/vss/signals".
func DescribeHandle(h Handle) string {
	reg.Lock()
	defer reg.Unlock()

	e, ok := reg.entities[h]
	if !ok {
		return "deleted"
	}
	kind := [...]string{"participant", "topic", "writer", "reader", "waitset"}[e.kind]
	if e.name == "" {
		return kind
	}
	return strings.Join([]string{kind, e.name}, " ")
}
