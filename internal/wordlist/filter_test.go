package wordlist

import "testing"

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", "Hello", "привет"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterRussianCyrillic(t *testing.T) {
	filter := FilterForLang("RU")
	for _, word := range []string{"привет", "ёлка", "её"} {
		if !filter(word) {
			t.Fatalf("expected %q to pass russian filter", word)
		}
	}
	for _, word := range []string{"", "hello", "Привет", "по-русски", "мир1"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterUnknownLangKeepsEverything(t *testing.T) {
	filter := FilterForLang("de")
	if !filter("Straße") {
		t.Fatalf("expected unknown language filter to accept any word")
	}
}
