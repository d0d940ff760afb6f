// Package valentine holds the state of the "will you be my valentine"
// widget: an avoid button that jumps away from the pointer and an accept
// button that reveals a message.
package valentine

import (
	"fmt"
	"math/rand"
)

// Padding keeps the avoid button off the container edge.
const Padding = 8.0

// Size is a measured width and height in CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Offset is a translation relative to the button's resting position.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform renders the offset as a CSS transform value.
func (o Offset) Transform() string {
	if o == (Offset{}) {
		return "translate(0, 0)"
	}
	return fmt.Sprintf("translate(%gpx, %gpx)", o.X, o.Y)
}

// Widget is one player's valentine widget.
type Widget struct {
	rng      *rand.Rand
	offset   Offset
	accepted bool
}

// New returns a widget at rest. rng must not be shared across goroutines.
func New(rng *rand.Rand) *Widget {
	return &Widget{rng: rng}
}

// Dodge moves the avoid button to a random spot inside container.
// Each axis lands in [Padding, container-button-Padding); when the button
// does not fit the axis is pinned at Padding.
func (w *Widget) Dodge(container, button Size) Offset {
	maxX := container.Width - button.Width - Padding
	maxY := container.Height - button.Height - Padding
	w.offset = Offset{
		X: max(Padding, w.rng.Float64()*maxX),
		Y: max(Padding, w.rng.Float64()*maxY),
	}
	return w.offset
}

// Accept shows the message and hides the button pair.
func (w *Widget) Accept() { w.accepted = true }

// Resize puts the avoid button back at its resting position. The new
// container size is not checked.
func (w *Widget) Resize() { w.offset = Offset{} }

// View is the render-ready widget state.
type View struct {
	Offset         Offset `json:"offset"`
	Transform      string `json:"transform"`
	MessageVisible bool   `json:"messageVisible"`
	ButtonsHidden  bool   `json:"buttonsHidden"`
}

// View returns the current state.
func (w *Widget) View() View {
	return View{
		Offset:         w.offset,
		Transform:      w.offset.Transform(),
		MessageVisible: w.accepted,
		ButtonsHidden:  w.accepted,
	}
}
