package view

import (
	"context"
	"io"
	"strings"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/a-h/templ"
)

const TITLE = "Home Assistant Demo"

type Fragment struct {
	EntityID string `json:"entity_id" yaml:"entity_id"`
	Template string `json:"template" yaml:"template"`
	HTML     string `json:"html" yaml:"html"`
}

// Document is a rendered dashboard. Only the fragments depend on the input
// entities.
type Document struct {
	Fragments []Fragment
}

// Render projects entities into one fragment each, in the given order.
func Render(entities []domain.Entity) Document {
	doc := Document{Fragments: make([]Fragment, 0, len(entities))}
	for _, e := range entities {
		var b strings.Builder
		_ = Card(e).Render(context.Background(), &b)
		doc.Fragments = append(doc.Fragments, Fragment{
			EntityID: e.EntityId,
			Template: TemplateFor(e.Domain()),
			HTML:     b.String(),
		})
	}
	return doc
}

func (d Document) Component() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
		w.raw(`<title>`)
		w.text(TITLE)
		w.raw(`</title><style>`)
		w.raw(PresentationRules)
		w.raw(`</style></head><body>`)
		w.raw(`<div class="demo-notice">🎭 Demo Mode Active</div>`)
		w.raw(`<div class="header"><h1>🏠 Home Assistant</h1><p>Demo Dashboard - Experience smart home control</p></div>`)
		w.raw(`<div class="dashboard">`)
		for _, f := range d.Fragments {
			w.raw(f.HTML)
		}
		w.raw(`</div><script>`)
		w.raw(RuntimeScript)
		w.raw(`</script></body></html>`)
		return w.err
	})
}

func (d Document) HTML() string {
	var b strings.Builder
	_ = d.Component().Render(context.Background(), &b)
	return b.String()
}
