package layout

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/verte-zerg/clipper/internal/wordlist"
)

//go:embed data/*.txt
var dataFS embed.FS

// CharacterMap maps a character to the character on the same physical key in
// the other layout. Characters outside the map pass through unchanged.
type CharacterMap map[rune]rune

// Apply substitutes every mapped rune and keeps the rest byte for byte,
// including invalid UTF-8. The result has the same number of runes as text.
func (m CharacterMap) Apply(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		mapped, ok := m[r]
		if ok && !(r == utf8.RuneError && size == 1) {
			b.WriteRune(mapped)
		} else {
			b.WriteString(text[i : i+size])
		}
		i += size
	}
	return b.String()
}

// Inverse returns the reverse mapping.
func (m CharacterMap) Inverse() CharacterMap {
	inv := make(CharacterMap, len(m))
	for from, to := range m {
		inv[to] = from
	}
	return inv
}

// FrequencyTable maps a lowercase letter to its relative frequency (0-100).
type FrequencyTable map[rune]float64

// WordDictionary is a set of common lowercase words.
type WordDictionary map[string]struct{}

// Contains reports whether word is in the dictionary.
func (d WordDictionary) Contains(word string) bool {
	_, ok := d[word]
	return ok
}

// Language bundles the static data describing one side of a layout pair.
type Language struct {
	Tag       Lang
	Frequency FrequencyTable
	Words     WordDictionary
}

// Tables holds a layout pair: two languages and the character maps between
// them. Layout A is the first language of the pair, B the second.
type Tables struct {
	a, b Language
	maps map[Direction]CharacterMap
}

// NewTables builds a pair from two languages and the A to B character map.
// The B to A map is derived as its inverse.
func NewTables(a, b Language, aToB CharacterMap) (*Tables, error) {
	if a.Tag == Unknown || b.Tag == Unknown || a.Tag == b.Tag {
		return nil, fmt.Errorf("layout pair needs two distinct languages, got %s and %s", a.Tag, b.Tag)
	}
	bToA := aToB.Inverse()
	if len(bToA) != len(aToB) {
		return nil, fmt.Errorf("%s map is not one-to-one", Direction{From: a.Tag, To: b.Tag})
	}
	return &Tables{
		a: a,
		b: b,
		maps: map[Direction]CharacterMap{
			{From: a.Tag, To: b.Tag}: aToB,
			{From: b.Tag, To: a.Tag}: bToA,
		},
	}, nil
}

// Pair returns the A and B language tags.
func (t *Tables) Pair() (Lang, Lang) {
	return t.a.Tag, t.b.Tag
}

// Language returns the data for tag.
func (t *Tables) Language(tag Lang) (Language, bool) {
	switch tag {
	case t.a.Tag:
		return t.a, true
	case t.b.Tag:
		return t.b, true
	default:
		return Language{}, false
	}
}

// Map returns the character map for a direction.
func (t *Tables) Map(dir Direction) (CharacterMap, bool) {
	m, ok := t.maps[dir]
	return m, ok
}

// Directions returns A to B followed by B to A.
func (t *Tables) Directions() []Direction {
	return []Direction{
		{From: t.a.Tag, To: t.b.Tag},
		{From: t.b.Tag, To: t.a.Tag},
	}
}

// Letter keys of the ЙЦУКЕН and QWERTY layouts, aligned by physical key.
// Cyrillic letters that sit on Latin punctuation keys (ё х ъ ж э б ю) are left
// out so punctuation always passes through.
const (
	ruKeysLower = "йцукенгшщзфывапролдячсмить"
	enKeysLower = "qwertyuiopasdfghjklzxcvbnm"
	ruKeysUpper = "ЙЦУКЕНГШЩЗФЫВАПРОЛДЯЧСМИТЬ"
	enKeysUpper = "QWERTYUIOPASDFGHJKLZXCVBNM"
)

var russianFrequency = FrequencyTable{
	'о': 10.97, 'е': 8.45, 'а': 8.01, 'и': 7.35, 'н': 6.70, 'т': 6.26,
	'с': 5.47, 'р': 4.73, 'в': 4.54, 'л': 4.40, 'к': 3.49, 'м': 3.21,
	'д': 2.98, 'п': 2.81, 'у': 2.62, 'я': 2.01, 'ы': 1.90, 'ь': 1.74,
	'г': 1.70, 'з': 1.65, 'б': 1.59, 'ч': 1.44, 'й': 1.21, 'х': 0.97,
	'ж': 0.94, 'ш': 0.73, 'ю': 0.64, 'ц': 0.48, 'щ': 0.36, 'э': 0.32,
	'ф': 0.26, 'ъ': 0.04, 'ё': 0.04,
}

var englishFrequency = FrequencyTable{
	'e': 12.70, 't': 9.06, 'a': 8.17, 'o': 7.51, 'i': 6.97, 'n': 6.75,
	's': 6.33, 'h': 6.09, 'r': 5.99, 'd': 4.25, 'l': 4.03, 'c': 2.78,
	'u': 2.76, 'm': 2.41, 'w': 2.36, 'f': 2.23, 'g': 2.02, 'y': 1.97,
	'p': 1.93, 'b': 1.49, 'v': 0.98, 'k': 0.77, 'j': 0.15, 'x': 0.15,
	'q': 0.10, 'z': 0.07,
}

var (
	defaultTables     *Tables
	defaultTablesOnce sync.Once
)

// DefaultTables returns the Russian (A) / English (B) pair. It is built once
// per process.
func DefaultTables() *Tables {
	defaultTablesOnce.Do(func() {
		ruToEn := pairKeys(ruKeysLower, enKeysLower)
		for from, to := range pairKeys(ruKeysUpper, enKeysUpper) {
			ruToEn[from] = to
		}
		ru := Language{Tag: Russian, Frequency: russianFrequency, Words: mustLoadDictionary(Russian)}
		en := Language{Tag: English, Frequency: englishFrequency, Words: mustLoadDictionary(English)}
		tables, err := NewTables(ru, en, ruToEn)
		if err != nil {
			panic(fmt.Sprintf("layout: default tables: %v", err))
		}
		defaultTables = tables
	})
	return defaultTables
}

func pairKeys(from, to string) CharacterMap {
	fromRunes := []rune(from)
	toRunes := []rune(to)
	if len(fromRunes) != len(toRunes) {
		panic(fmt.Sprintf("layout: key rows differ in length: %d vs %d", len(fromRunes), len(toRunes)))
	}
	m := make(CharacterMap, len(fromRunes))
	for i, r := range fromRunes {
		m[r] = toRunes[i]
	}
	return m
}

func mustLoadDictionary(tag Lang) WordDictionary {
	data, err := dataFS.ReadFile("data/" + tag.String() + ".txt")
	if err != nil {
		panic(fmt.Sprintf("layout: read %s dictionary: %v", tag, err))
	}
	words, err := wordlist.ReadWords(bytes.NewReader(data))
	if err != nil {
		panic(fmt.Sprintf("layout: parse %s dictionary: %v", tag, err))
	}
	return WordDictionary(wordlist.Set(words, wordlist.FilterForLang(tag.String())))
}
