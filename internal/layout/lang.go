// Package layout detects text typed on the wrong keyboard layout and remaps
// it to the layout the typist intended.
//
// The detector scores text against two languages, each described by a letter
// frequency table and a common-word dictionary, and compares dictionary hit
// rates before and after a hypothetical key-position conversion. Everything
// in this package is immutable after construction and safe for concurrent use.
package layout

import (
	"fmt"
	"strings"
)

// Lang identifies one side of a layout pair.
type Lang int

// Supported layouts.
const (
	Unknown Lang = iota
	Russian
	English
)

// String returns the short language tag.
func (l Lang) String() string {
	switch l {
	case Russian:
		return "ru"
	case English:
		return "en"
	default:
		return "unknown"
	}
}

// ParseLang resolves a language tag such as "ru" or "en".
func ParseLang(tag string) (Lang, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "ru":
		return Russian, nil
	case "en":
		return English, nil
	default:
		return Unknown, fmt.Errorf("unknown layout %q (available: ru, en)", tag)
	}
}

// Direction names a conversion from one layout to another.
type Direction struct {
	From Lang
	To   Lang
}

// String formats the direction as "ru_to_en".
func (d Direction) String() string {
	return d.From.String() + "_to_" + d.To.String()
}

// Common conversion directions.
var (
	RuToEn = Direction{From: Russian, To: English}
	EnToRu = Direction{From: English, To: Russian}
)
