package view

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/a-h/templ"
)

const (
	TEMPLATE_CONTROL = "control-card"
	TEMPLATE_SENSOR  = "sensor-card"
	TEMPLATE_BINARY  = "binary-card"
	TEMPLATE_CLIMATE = "climate-card"
	TEMPLATE_LOCK    = "lock-card"
	TEMPLATE_GENERIC = "generic-card"
)

// TemplateFor picks the card template from the entity domain alone.
func TemplateFor(entityDomain string) string {
	switch entityDomain {
	case domain.DOMAIN_LIGHT, domain.DOMAIN_SWITCH:
		return TEMPLATE_CONTROL
	case domain.DOMAIN_SENSOR:
		return TEMPLATE_SENSOR
	case domain.DOMAIN_BINARY_SENSOR:
		return TEMPLATE_BINARY
	case domain.DOMAIN_CLIMATE:
		return TEMPLATE_CLIMATE
	case domain.DOMAIN_LOCK:
		return TEMPLATE_LOCK
	default:
		return TEMPLATE_GENERIC
	}
}

// Card returns the component rendering e with its domain template.
func Card(e domain.Entity) templ.Component {
	switch TemplateFor(e.Domain()) {
	case TEMPLATE_CONTROL:
		return ControlCard(e)
	case TEMPLATE_SENSOR:
		return SensorCard(e)
	case TEMPLATE_BINARY:
		return BinaryCard(e)
	case TEMPLATE_CLIMATE:
		return ClimateCard(e)
	case TEMPLATE_LOCK:
		return LockCard(e)
	default:
		return GenericCard(e)
	}
}

var jsQuote = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func jsArg(s string) string {
	return "'" + jsQuote.Replace(s) + "'"
}

// writer collects the first write error so cards read as straight markup.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) open(title string) {
	w.raw(`<div class="card"><h3>`)
	w.text(title)
	w.raw(`</h3>`)
}

func (w *writer) close() {
	w.raw(`</div>`)
}

func card(fn func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		fn(w)
		return w.err
	})
}

func ControlCard(e domain.Entity) templ.Component {
	return card(func(w *writer) {
		w.open(e.FriendlyName())
		w.raw(`<button class="control-button `)
		w.text(e.State)
		w.raw(`" data-entity-id="`)
		w.text(e.EntityId)
		w.raw(`" data-state="`)
		w.text(e.State)
		w.raw(`" onclick="`)
		w.text("toggleEntity(" + jsArg(e.EntityId) + ", " + jsArg(e.State) + ")")
		w.raw(`">`)
		w.text(strings.ToUpper(e.State))
		w.raw(`</button>`)
		w.close()
	})
}

func SensorCard(e domain.Entity) templ.Component {
	return card(func(w *writer) {
		w.open(e.FriendlyName())
		w.raw(`<div class="sensor-value"><span data-sensor="`)
		w.text(e.ObjectId())
		w.raw(`">`)
		w.text(e.State)
		w.raw(`</span><span class="unit">`)
		w.text(e.StringAttribute(domain.ATTR_UNIT_OF_MEASUREMENT))
		w.raw(`</span></div>`)
		w.close()
	})
}

func BinaryCard(e domain.Entity) templ.Component {
	return card(func(w *writer) {
		label := "CLOSED"
		if e.State == domain.STATE_ON {
			label = "OPEN"
		}
		w.open(e.FriendlyName())
		w.raw(`<div class="centered"><span class="status `)
		w.text(e.State)
		w.raw(`">`)
		w.text(label)
		w.raw(`</span></div>`)
		w.close()
	})
}

func ClimateCard(e domain.Entity) templ.Component {
	return card(func(w *writer) {
		w.open(e.FriendlyName())
		w.raw(`<div class="sensor-value"><span data-climate="`)
		w.text(e.ObjectId())
		w.raw(`">`)
		w.text(formatNumber(e, domain.ATTR_CURRENT_TEMPERATURE))
		w.raw(`</span>°C</div><p class="muted">Target: `)
		w.text(formatNumber(e, domain.ATTR_TEMPERATURE))
		w.raw(`°C</p>`)
		w.close()
	})
}

func LockCard(e domain.Entity) templ.Component {
	return card(func(w *writer) {
		status := domain.STATE_ON
		if e.State == domain.STATE_LOCKED {
			status = domain.STATE_OFF
		}
		w.open(e.FriendlyName())
		w.raw(`<div class="centered"><span class="status `)
		w.raw(status)
		w.raw(`">`)
		w.text(strings.ToUpper(e.State))
		w.raw(`</span></div>`)
		w.close()
	})
}

func GenericCard(e domain.Entity) templ.Component {
	return card(func(w *writer) {
		w.open(e.FriendlyName())
		w.raw(`<p class="muted">`)
		w.text(e.State)
		w.raw(`</p>`)
		w.close()
	})
}

// formatNumber renders a numeric attribute, 0 when missing or not a number.
func formatNumber(e domain.Entity, key string) string {
	v, ok := e.NumberAttribute(key)
	if !ok {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
