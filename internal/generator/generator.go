// Package generator builds reproducible random text for exercising layout
// conversion.
package generator

import (
	"math/rand"
	"strings"
	"unicode"
)

// Generator produces randomized text from a fixed seed.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with seed. Equal seeds yield equal output.
func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Word returns a random word over alphabet with a rune length between minLen
// and maxLen inclusive.
func (g *Generator) Word(alphabet []rune, minLen, maxLen int) string {
	if len(alphabet) == 0 || maxLen <= 0 {
		return ""
	}
	if minLen < 1 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	n := minLen + g.rnd.Intn(maxLen-minLen+1)
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = alphabet[g.rnd.Intn(len(alphabet))]
	}
	return string(runes)
}

// Text joins count random words with separators drawn from seps, applying
// caps and punctuation rules per word.
func (g *Generator) Text(alphabet []rune, count int, capsPct, punctPct float64, punctSet, seps []rune) string {
	if len(seps) == 0 {
		seps = []rune{' '}
	}
	var b strings.Builder
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteRune(seps[g.rnd.Intn(len(seps))])
		}
		word := g.Word(alphabet, 1, 8)
		word = applyCaps(g.rnd, word, capsPct)
		word = applyPunct(g.rnd, word, punctPct, punctSet)
		b.WriteString(word)
	}
	return b.String()
}

// Generate selects words uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(words []string, count int, capsPct, punctPct float64, punctSet []rune) []string {
	result := make([]string, 0, count)
	if len(words) == 0 {
		return result
	}
	for i := 0; i < count; i++ {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, capsPct)
		word = applyPunct(g.rnd, word, punctPct, punctSet)
		result = append(result, word)
	}
	return result
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
