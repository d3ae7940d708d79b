package layout

import "github.com/matzehuels/treeml/pkg/text"

// Context is the state carried from one sentence to the next while a
// document is laid out. It is not safe for concurrent use; each document
// gets its own Context.
type Context struct {
	Config   Config
	Measurer text.Measurer

	// Y is the running vertical offset. A sentence reserves room above its
	// baseline, draws at Y, then advances Y by SentenceGap.
	Y float64

	// NextID is the first element id available to the next sentence.
	NextID int
}

// NewContext returns a context positioned at the configured origin.
func NewContext(cfg Config, m text.Measurer) *Context {
	return &Context{
		Config:   cfg,
		Measurer: m,
		Y:        cfg.YInit,
	}
}

// Measure returns the width and line height of s in font f.
func (c *Context) Measure(s string, f text.Font) (float64, float64) {
	return c.Measurer.Measure(s, f)
}

// Width returns only the width of s in font f.
func (c *Context) Width(s string, f text.Font) float64 {
	w, _ := c.Measurer.Measure(s, f)
	return w
}

// Reserve advances the running offset by dy, making room above the baseline.
func (c *Context) Reserve(dy float64) { c.Y += dy }

// Finish closes a sentence that used ids element ids.
func (c *Context) Finish(ids int) {
	c.Y += c.Config.SentenceGap
	c.NextID += ids
}
