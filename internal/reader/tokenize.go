package reader

import "strings"

// Tokenize splits text on runs of whitespace and times each fragment at wpm.
// Fragments are kept verbatim, punctuation and case included.
func Tokenize(text string, wpm int) []Word {
	fields := strings.Fields(text)
	words := make([]Word, 0, len(fields))
	for _, f := range fields {
		words = append(words, NewWord(f, wpm))
	}
	return words
}
