package layout

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultThreshold is the minimum dictionary hit rate used by the CLI.
const DefaultThreshold = 0.3

// Result is the verdict for one piece of text.
type Result struct {
	// Apparent is the layout the raw letters resemble.
	Apparent Lang
	// Intended is the layout the text should be read in.
	Intended Lang
	// Confidence is in [0, 1].
	Confidence float64
	// NeedsConversion is true only when Intended differs from Apparent.
	NeedsConversion bool
}

// Direction returns the conversion the result calls for. ok is false when no
// conversion is needed.
func (r Result) Direction() (Direction, bool) {
	if !r.NeedsConversion {
		return Direction{}, false
	}
	return Direction{From: r.Apparent, To: r.Intended}, true
}

// Analysis is a Result together with the scores it was derived from.
type Analysis struct {
	Result

	// Frequency is the letter-frequency similarity per language.
	Frequency map[Lang]float64
	// Conversion is the dictionary hit rate after converting in a direction.
	Conversion map[Direction]float64
	// Current is the dictionary hit rate of the unconverted text per language.
	Current map[Lang]float64
	// Threshold is the detector threshold used for the decision.
	Threshold float64
	// Pair lists layout A then layout B.
	Pair [2]Lang
}

var emptyResult = Result{Apparent: Unknown, Intended: Unknown}

// Option configures a Detector.
type Option func(*Detector)

// WithTables replaces the default Russian/English tables.
func WithTables(t *Tables) Option {
	return func(d *Detector) {
		if t != nil {
			d.tables = t
		}
	}
}

// Detector decides whether text was typed on the wrong layout.
type Detector struct {
	threshold float64
	tables    *Tables
}

// NewDetector returns a detector that accepts a conversion only when the
// converted text hits the target dictionary at least threshold of the time.
// The threshold is expected to be in [0, 1].
func NewDetector(threshold float64, opts ...Option) *Detector {
	d := &Detector{threshold: threshold}
	for _, opt := range opts {
		opt(d)
	}
	if d.tables == nil {
		d.tables = DefaultTables()
	}
	return d
}

// Detect classifies text. Empty or whitespace-only text yields the zero
// verdict with Unknown layouts.
func (d *Detector) Detect(text string) Result {
	return d.Analyze(text).Result
}

// Analyze classifies text and returns every intermediate score.
func (d *Detector) Analyze(text string) Analysis {
	a, b := d.tables.Pair()
	analysis := Analysis{
		Result:     emptyResult,
		Frequency:  map[Lang]float64{},
		Conversion: map[Direction]float64{},
		Current:    map[Lang]float64{},
		Threshold:  d.threshold,
		Pair:       [2]Lang{a, b},
	}
	if strings.TrimSpace(text) == "" {
		return analysis
	}

	langA, _ := d.tables.Language(a)
	langB, _ := d.tables.Language(b)
	lowered := lower(text)

	scoreA := frequencyScore(lowered, langA.Frequency)
	scoreB := frequencyScore(lowered, langB.Frequency)
	analysis.Frequency[a] = scoreA
	analysis.Frequency[b] = scoreB

	// Ties go to B.
	apparent := b
	if scoreA > scoreB {
		apparent = a
	}

	directions := d.tables.Directions()
	for _, dir := range directions {
		m, _ := d.tables.Map(dir)
		target, _ := d.tables.Language(dir.To)
		analysis.Conversion[dir] = wordScore(m.Apply(text), target.Words)
	}

	tokens := tokenize(lowered)
	analysis.Current[a] = dictionaryRate(tokens, langA.Words)
	analysis.Current[b] = dictionaryRate(tokens, langB.Words)

	analysis.Result = Result{
		Apparent:   apparent,
		Intended:   apparent,
		Confidence: max(scoreA, scoreB),
	}
	// A to B is checked first, so equal conversion scores favour it.
	for _, dir := range directions {
		score := analysis.Conversion[dir]
		if score <= analysis.Current[a] || score <= analysis.Current[b] {
			continue
		}
		if score < d.threshold {
			continue
		}
		analysis.Intended = dir.To
		analysis.Confidence = score
		analysis.NeedsConversion = analysis.Intended != analysis.Apparent
		break
	}
	return analysis
}

// frequencyScore sums, over the distinct letters of text, the smaller of the
// expected and the observed frequency. The result is clamped to [0, 1].
func frequencyScore(lowered string, table FrequencyTable) float64 {
	counts := map[rune]int{}
	// Letters in first-seen order keep the float sum identical across calls.
	var order []rune
	total := 0
	for _, r := range lowered {
		if !unicode.IsLetter(r) {
			continue
		}
		if counts[r] == 0 {
			order = append(order, r)
		}
		counts[r]++
		total++
	}
	if total == 0 {
		return 0
	}
	score := 0.0
	for _, r := range order {
		expected, ok := table[r]
		if !ok {
			continue
		}
		score += min(expected/100.0, float64(counts[r])/float64(total))
	}
	return min(score, 1.0)
}

func wordScore(text string, words WordDictionary) float64 {
	return dictionaryRate(tokenize(lower(text)), words)
}

func dictionaryRate(tokens []string, words WordDictionary) float64 {
	if len(tokens) == 0 {
		return 0
	}
	hits := 0
	for _, token := range tokens {
		if words.Contains(token) {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

// tokenize splits text into maximal runs of letters, digits and underscores.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// lower builds a fresh Caser per call because a Caser is not safe for
// concurrent use.
func lower(text string) string {
	return cases.Lower(language.Und).String(text)
}
