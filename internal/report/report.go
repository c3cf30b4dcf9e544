package report

import (
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/clipper/internal/layout"
)

// DefaultPreview is the preview width used in status lines.
const DefaultPreview = 10

// Render writes the analysis as an aligned two-column table.
func Render(w io.Writer, a layout.Analysis) error {
	langA, langB := a.Pair[0], a.Pair[1]
	aToB := layout.Direction{From: langA, To: langB}
	bToA := layout.Direction{From: langB, To: langA}

	t := newMetricTable("Metric", "Value")
	t.add("apparent layout", a.Apparent.String())
	t.add("intended layout", a.Intended.String())
	t.add("needs conversion", yesNo(a.NeedsConversion))
	t.addScore("confidence", a.Confidence)
	t.addScore("threshold", a.Threshold)
	t.addScore("frequency "+langA.String(), a.Frequency[langA])
	t.addScore("frequency "+langB.String(), a.Frequency[langB])
	t.addScore("words "+aToB.String(), a.Conversion[aToB])
	t.addScore("words "+bToA.String(), a.Conversion[bToA])
	t.addScore("words as "+langA.String(), a.Current[langA])
	t.addScore("words as "+langB.String(), a.Current[langB])
	return t.writeTo(w)
}

// Preview shortens text to at most width terminal cells.
func Preview(text string, width int) string {
	if width <= 0 {
		return text
	}
	return runewidth.Truncate(text, width, "")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
