package layout

import "strings"

// Converter rewrites text typed on the wrong layout. It satisfies the engine's
// processor contract.
type Converter struct {
	detector *Detector
}

// NewConverter returns a converter backed by a detector with the given
// threshold.
func NewConverter(threshold float64, opts ...Option) *Converter {
	return &Converter{detector: NewDetector(threshold, opts...)}
}

// Name returns the processor name.
func (c *Converter) Name() string {
	return "Layout Converter"
}

// Description returns a one-line summary of the processor.
func (c *Converter) Description() string {
	return "Converts text between Russian and English keyboard layouts"
}

// CanProcess reports whether Process would change text.
func (c *Converter) CanProcess(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return c.detector.Detect(text).NeedsConversion
}

// Analyze returns the verdict and its scores.
func (c *Converter) Analyze(text string) Analysis {
	return c.detector.Analyze(text)
}

// Process converts text to its intended layout, or returns it unchanged when
// no conversion is warranted.
func (c *Converter) Process(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	dir, ok := c.detector.Detect(text).Direction()
	if !ok {
		return text
	}
	return c.Convert(text, dir)
}

// Convert applies the character map for dir regardless of detection. Unknown
// directions return text unchanged.
func (c *Converter) Convert(text string, dir Direction) string {
	m, ok := c.detector.tables.Map(dir)
	if !ok {
		return text
	}
	return m.Apply(text)
}
