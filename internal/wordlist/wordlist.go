// Package wordlist parses word lists.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadWords reads one word per line. Blank lines and lines starting with '#'
// are skipped.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Set builds a membership set from words, keeping only those accepted by filter.
// A nil filter keeps everything.
func Set(words []string, filter FilterFunc) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		if filter != nil && !filter(word) {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}
