package readability

import (
	"regexp"
	"strings"
	"unicode"

	"NewsScanner/internal/domain"
)

var (
	wordExpr      = regexp.MustCompile(`[A-Za-z0-9]+(?:['’][A-Za-z]+)*`)
	sentenceExpr  = regexp.MustCompile(`[.!?]+`)
	paragraphExpr = regexp.MustCompile(`\n\s*\n`)
)

// ComputeStats tokenizes cleaned text and computes every count the
// readability formulas consume. Text that contains no words yields
// domain.ErrNoContent so no downstream formula ever divides by zero.
func ComputeStats(text string) (domain.TextStats, error) {
	text = strings.TrimSpace(text)

	words := wordExpr.FindAllString(text, -1)
	if len(words) == 0 {
		return domain.TextStats{}, domain.ErrNoContent
	}

	totalSyllables := 0
	complexWords := 0
	for _, word := range words {
		n := CountSyllables(word)
		totalSyllables += n
		if n >= 3 {
			complexWords++
		}
	}

	return domain.TextStats{
		Words:            len(words),
		Sentences:        countSentences(text),
		Paragraphs:       countParagraphs(text),
		Characters:       countCharacters(text),
		Syllables:        totalSyllables,
		AvgWordSyllables: float64(totalSyllables) / float64(len(words)),
		ComplexWords:     complexWords,
	}, nil
}

// countSentences splits on runs of terminal punctuation. Text with words but
// no terminal punctuation counts as a single sentence.
func countSentences(text string) int {
	count := 0
	for _, span := range sentenceExpr.Split(text, -1) {
		if strings.TrimSpace(span) != "" {
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	return count
}

// countParagraphs splits on blank lines.
func countParagraphs(text string) int {
	count := 0
	for _, block := range paragraphExpr.Split(text, -1) {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	return count
}

// countCharacters counts non-whitespace runes.
func countCharacters(text string) int {
	count := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

// CountSyllables estimates syllables with a vowel-group heuristic: each run
// of vowels is one syllable, a trailing silent 'e' is dropped, and every
// word has at least one syllable. Deterministic, so scores are reproducible.
func CountSyllables(word string) int {
	word = strings.ToLower(word)

	const vowels = "aeiouy"
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune(vowels, r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}

	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}

	if count < 1 {
		count = 1
	}
	return count
}

// Words returns the word tokens of text, used for familiar-word lookups.
func Words(text string) []string {
	return wordExpr.FindAllString(text, -1)
}
