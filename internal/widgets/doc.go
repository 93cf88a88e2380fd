// Package widgets contains dumb render primitives.
//
// Allowed here: stateless drawing and composition helpers.
// Not allowed here: key handling or app state transitions.
package widgets

// Widget renders itself into a width x height cell area.
type Widget interface {
	Render(width, height int) string
}

// Text is a widget that renders a fixed string.
type Text string

func (t Text) Render(width, height int) string { return string(t) }
