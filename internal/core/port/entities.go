package port

import "github.com/Mugiii7/CustomHA/internal/core/domain"

type EntityReader interface {
	List() []domain.Entity
	Get(id string) (domain.Entity, bool)
}

type EntityStore interface {
	EntityReader
	Update(id string, state string) bool
	Modify(id string, fn func(current domain.Entity) (string, bool)) bool
}

type ServiceDispatcher interface {
	Dispatch(domain string, service string, payload map[string]any) bool
}

// ServiceCallRecorder receives the outcome of every dispatched call.
type ServiceCallRecorder interface {
	ServiceCall(domain string, service string, outcome string)
}
