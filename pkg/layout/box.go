package layout

// Box is the rectangle reserved for one rendered label.
// X and Y are the top-left corner in absolute canvas coordinates.
// Margin is extra horizontal room to the right of the measured text, reserved
// for connectors or for a wider ancestor label.
type Box struct {
	X, Y          float64
	Width, Height float64
	Margin        float64
}

// Span returns the full horizontal extent: measured width plus margin.
func (b Box) Span() float64 { return b.Width + b.Margin }

// Right returns the x coordinate of the right edge of the span.
func (b Box) Right() float64 { return b.X + b.Span() }

// CenterX returns the horizontal centre of the span.
func (b Box) CenterX() float64 { return b.X + b.Span()/2 }

// Bottom returns the y coordinate of the lower edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// Shift moves the box right by dx.
func (b *Box) Shift(dx float64) { b.X += dx }
