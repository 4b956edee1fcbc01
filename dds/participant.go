package dds

import "github.com/tr-sdv-sandbox/vdr-light/dds/core"

// DomainDefault is the domain joined when no specific id is configured.
const DomainDefault uint32 = 0

// Participant is a domain membership. Topics, writers and readers hold it by
// reference; they never own it and must not outlive it.
type Participant struct {
	entity Entity
	domain uint32
}

// NewParticipant joins a domain. qos may be nil for middleware defaults.
func NewParticipant(domain uint32, qos *QosBuilder) (*Participant, error) {
	entity, err := NewEntity(core.CreateParticipant(domain, qos.policy()), "create participant")
	if err != nil {
		return nil, err
	}
	log().Info("joined domain", "domain", domain)
	return &Participant{entity: entity, domain: domain}, nil
}

func (p *Participant) Handle() core.Handle { return p.entity.Handle() }

// Domain returns the domain id joined at construction.
func (p *Participant) Domain() uint32 { return p.domain }

// Close leaves the domain and releases every entity the middleware still
// tracks under this membership.
func (p *Participant) Close() { p.entity.Close() }
