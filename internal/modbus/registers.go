package modbus

import (
	"math"
	"strconv"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/port"
	"github.com/simonvetter/modbus"
	"go.uber.org/zap"
)

const (
	TABLE_COILS             = "coils"
	TABLE_DISCRETE_INPUTS   = "discrete_inputs"
	TABLE_HOLDING_REGISTERS = "holding_registers"
	TABLE_INPUT_REGISTERS   = "input_registers"
)

// ServiceCaller forwards a coil write as a service call.
type ServiceCaller func(domain string, service string, data map[string]any)

type RequestRecorder interface {
	ModbusRequest(table string, write bool)
}

// Layout assigns addresses by position within each table, entities sorted by id.
type Layout struct {
	Coils          []domain.Entity
	DiscreteInputs []domain.Entity
	InputRegisters []domain.Entity
}

func LayoutOf(entities []domain.Entity) Layout {
	var l Layout
	for _, e := range entities {
		switch e.Domain() {
		case domain.DOMAIN_LIGHT, domain.DOMAIN_SWITCH, domain.DOMAIN_LOCK:
			l.Coils = append(l.Coils, e)
		case domain.DOMAIN_BINARY_SENSOR:
			l.DiscreteInputs = append(l.DiscreteInputs, e)
		case domain.DOMAIN_SENSOR, domain.DOMAIN_CLIMATE:
			l.InputRegisters = append(l.InputRegisters, e)
		}
	}
	return l
}

// RegisterMap serves the entity set as a modbus device.
type RegisterMap struct {
	reader   port.EntityReader
	call     ServiceCaller
	recorder RequestRecorder
	logger   *zap.Logger
}

func NewRegisterMap(reader port.EntityReader, call ServiceCaller, recorder RequestRecorder, logger *zap.Logger) *RegisterMap {
	return &RegisterMap{
		reader:   reader,
		call:     call,
		recorder: recorder,
		logger:   logger,
	}
}

func (m *RegisterMap) layout() Layout {
	return LayoutOf(m.reader.List())
}

func (m *RegisterMap) record(table string, write bool) {
	if m.recorder != nil {
		m.recorder.ModbusRequest(table, write)
	}
}

func window[T any](items []T, addr uint16, quantity uint16) ([]T, error) {
	end := int(addr) + int(quantity)
	if quantity == 0 || end > len(items) {
		return nil, modbus.ErrIllegalDataAddress
	}
	return items[addr:end], nil
}

func (m *RegisterMap) HandleCoils(req *modbus.CoilsRequest) ([]bool, error) {
	m.record(TABLE_COILS, req.IsWrite)
	entities, err := window(m.layout().Coils, req.Addr, req.Quantity)
	if err != nil {
		return nil, err
	}

	if req.IsWrite {
		for i, e := range entities {
			if i >= len(req.Args) {
				break
			}
			service := coilService(e.Domain(), req.Args[i])
			m.logger.Debug("modbus@default coil write",
				zap.String("entity_id", e.EntityId), zap.String("service", service))
			m.call(e.Domain(), service, map[string]any{domain.ATTR_ENTITY_ID: e.EntityId})
		}
		return nil, nil
	}

	res := make([]bool, len(entities))
	for i, e := range entities {
		res[i] = e.State == domain.STATE_ON || e.State == domain.STATE_LOCKED
	}
	return res, nil
}

func (m *RegisterMap) HandleDiscreteInputs(req *modbus.DiscreteInputsRequest) ([]bool, error) {
	m.record(TABLE_DISCRETE_INPUTS, false)
	entities, err := window(m.layout().DiscreteInputs, req.Addr, req.Quantity)
	if err != nil {
		return nil, err
	}
	res := make([]bool, len(entities))
	for i, e := range entities {
		res[i] = e.State == domain.STATE_ON
	}
	return res, nil
}

func (m *RegisterMap) HandleHoldingRegisters(req *modbus.HoldingRegistersRequest) ([]uint16, error) {
	m.record(TABLE_HOLDING_REGISTERS, req.IsWrite)
	return nil, modbus.ErrIllegalFunction
}

func (m *RegisterMap) HandleInputRegisters(req *modbus.InputRegistersRequest) ([]uint16, error) {
	m.record(TABLE_INPUT_REGISTERS, false)
	entities, err := window(m.layout().InputRegisters, req.Addr, req.Quantity)
	if err != nil {
		return nil, err
	}
	res := make([]uint16, len(entities))
	for i, e := range entities {
		res[i] = EncodeTenths(registerValue(e))
	}
	return res, nil
}

func coilService(entityDomain string, value bool) string {
	if entityDomain == domain.DOMAIN_LOCK {
		if value {
			return domain.SERVICE_LOCK
		}
		return domain.SERVICE_UNLOCK
	}
	if value {
		return domain.SERVICE_TURN_ON
	}
	return domain.SERVICE_TURN_OFF
}

func registerValue(e domain.Entity) float64 {
	if e.Domain() == domain.DOMAIN_CLIMATE {
		v, _ := e.NumberAttribute(domain.ATTR_CURRENT_TEMPERATURE)
		return v
	}
	v, err := strconv.ParseFloat(e.State, 64)
	if err != nil {
		return 0
	}
	return v
}

// EncodeTenths stores v as a signed 16 bit count of tenths, saturating at the
// int16 range.
func EncodeTenths(v float64) uint16 {
	t := math.Round(v * 10)
	t = math.Max(math.MinInt16, math.Min(math.MaxInt16, t))
	return uint16(int16(t))
}

func DecodeTenths(r uint16) float64 {
	return float64(int16(r)) / 10
}

// ensure interface compliance
var _ modbus.RequestHandler = (*RegisterMap)(nil)
