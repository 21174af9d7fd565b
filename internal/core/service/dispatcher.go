package service

import (
	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/port"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	OUTCOME_APPLIED     = "applied"
	OUTCOME_NO_TARGET   = "no_target"
	OUTCOME_UNSUPPORTED = "unsupported"
)

type transition int

const (
	transitionNone transition = iota
	transitionSetOn
	transitionSetOff
	transitionToggle
	transitionLock
	transitionUnlock
)

type servicePayload struct {
	EntityId string `mapstructure:"entity_id"`
}

// Dispatcher turns service calls into store transitions. It never fails:
// unknown calls and payloads without a usable target are no-ops.
type Dispatcher struct {
	Store    port.EntityStore
	Recorder port.ServiceCallRecorder
	Logger   *zap.Logger
}

func NewDispatcher(store port.EntityStore, recorder port.ServiceCallRecorder, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		Store:    store,
		Recorder: recorder,
		Logger:   logger,
	}
}

func resolveTransition(domainName string, service string) transition {
	switch service {
	case domain.SERVICE_TURN_ON, domain.SERVICE_TURN_OFF:
		if domainName != domain.DOMAIN_LIGHT && domainName != domain.DOMAIN_SWITCH {
			return transitionNone
		}
		if service == domain.SERVICE_TURN_ON {
			return transitionSetOn
		}
		return transitionSetOff
	case domain.SERVICE_TOGGLE:
		return transitionToggle
	case domain.SERVICE_LOCK:
		return transitionLock
	case domain.SERVICE_UNLOCK:
		return transitionUnlock
	default:
		return transitionNone
	}
}

// TargetOf extracts the entity id from a service payload. A missing key or a
// non-string value yields false.
func TargetOf(payload map[string]any) (string, bool) {
	var p servicePayload
	if err := mapstructure.Decode(payload, &p); err != nil || p.EntityId == "" {
		return "", false
	}
	return p.EntityId, true
}

func (d *Dispatcher) Dispatch(domainName string, service string, payload map[string]any) bool {
	t := resolveTransition(domainName, service)
	if t == transitionNone {
		d.Logger.Debug("dispatcher: unsupported service call",
			zap.String("domain", domainName), zap.String("service", service))
		d.record(domainName, service, OUTCOME_UNSUPPORTED)
		return false
	}

	entityId, ok := TargetOf(payload)
	if !ok {
		d.Logger.Debug("dispatcher: service call without entity_id",
			zap.String("domain", domainName), zap.String("service", service))
		d.record(domainName, service, OUTCOME_NO_TARGET)
		return false
	}

	var applied bool
	switch t {
	case transitionSetOn:
		applied = d.Store.Update(entityId, domain.STATE_ON)
	case transitionSetOff:
		applied = d.Store.Update(entityId, domain.STATE_OFF)
	case transitionToggle:
		applied = d.Store.Modify(entityId, func(current domain.Entity) (string, bool) {
			if current.State == domain.STATE_ON {
				return domain.STATE_OFF, true
			}
			return domain.STATE_ON, true
		})
	case transitionLock:
		applied = d.Store.Update(entityId, domain.STATE_LOCKED)
	case transitionUnlock:
		applied = d.Store.Update(entityId, domain.STATE_UNLOCKED)
	}

	if applied {
		d.Logger.Debug("dispatcher: service call applied",
			zap.String("domain", domainName), zap.String("service", service), zap.String("entity_id", entityId))
		d.record(domainName, service, OUTCOME_APPLIED)
	} else {
		d.record(domainName, service, OUTCOME_NO_TARGET)
	}
	return applied
}

func (d *Dispatcher) record(domainName string, service string, outcome string) {
	if d.Recorder != nil {
		d.Recorder.ServiceCall(domainName, service, outcome)
	}
}

// ensure interface compliance
var _ port.ServiceDispatcher = (*Dispatcher)(nil)
