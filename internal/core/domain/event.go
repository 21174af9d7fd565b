package domain

import "fmt"

type EntityEventMixIn struct {
	Entity Entity
}

type EntityEvent interface {
	EntityEvent() string
	EntityId() string
}

func (e EntityEventMixIn) EntityEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e EntityEventMixIn) EntityId() string {
	return e.Entity.EntityId
}

// EntityStateChangedEvent is published after a service call mutated the store.
type EntityStateChangedEvent struct {
	EntityEventMixIn
	Service string
}

// EntityStateSnapshotEvent is published for every entity on the periodic
// republish tick.
type EntityStateSnapshotEvent struct {
	EntityEventMixIn
}

// BridgeMessageEvent carries an outward bridge envelope received from a host.
type BridgeMessageEvent struct {
	Type    string
	Payload []byte
}

// ensure interface compliance
var _ EntityEvent = (*EntityStateChangedEvent)(nil)
var _ EntityEvent = (*EntityStateSnapshotEvent)(nil)
