package readability

import (
	_ "embed"
	"strings"
)

// The Dale-Chall familiar-word list: words a typical fourth grader knows.
// Dale-Chall and Spache treat everything outside it as difficult.
//
//go:embed dale_chall.txt
var daleChallRaw string

var familiarWords = buildFamiliarSet(daleChallRaw)

func buildFamiliarSet(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(raw) {
		set[strings.ToLower(word)] = struct{}{}
	}
	return set
}

// IsFamiliar reports whether a word appears on the familiar list. Common
// inflections (plural s/es, -ed, -ing) of a listed word also count as
// familiar, since the list records base forms.
func IsFamiliar(word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return true
	}
	if _, ok := familiarWords[word]; ok {
		return true
	}
	for _, suffix := range []string{"s", "es", "ed", "ing"} {
		base, found := strings.CutSuffix(word, suffix)
		if !found || base == "" {
			continue
		}
		if _, ok := familiarWords[base]; ok {
			return true
		}
	}
	return false
}

// CountDifficultWords counts the words of text missing from the familiar
// list. Numbers are never difficult.
func CountDifficultWords(text string) int {
	count := 0
	for _, word := range Words(text) {
		if isNumeric(word) {
			continue
		}
		if !IsFamiliar(word) {
			count++
		}
	}
	return count
}

func isNumeric(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(word) > 0
}
