package readability

import (
	"math"

	"NewsScanner/internal/domain"
)

// The formulas below are the standard published definitions. Callers must
// guard against zero words or sentences first (ComputeStats already returns
// domain.ErrNoContent in that case), so none of these divide by zero.

// FleschReadingEase: 206.835 - 1.015*(words/sentences) - 84.6*(syllables/words).
func FleschReadingEase(s domain.TextStats) float64 {
	asl := float64(s.Words) / float64(s.Sentences)
	asw := float64(s.Syllables) / float64(s.Words)
	return 206.835 - 1.015*asl - 84.6*asw
}

// FleschKincaidGrade: 0.39*(words/sentences) + 11.8*(syllables/words) - 15.59.
func FleschKincaidGrade(s domain.TextStats) float64 {
	asl := float64(s.Words) / float64(s.Sentences)
	asw := float64(s.Syllables) / float64(s.Words)
	return 0.39*asl + 11.8*asw - 15.59
}

// SMOGIndex: 3.1291 + 1.0430*sqrt(30*complexWords/sentences).
func SMOGIndex(s domain.TextStats) float64 {
	return 3.1291 + 1.0430*math.Sqrt(30*float64(s.ComplexWords)/float64(s.Sentences))
}

// DaleChall: 0.1579*(difficultWords%) + 0.0496*(words/sentences), where a
// difficult word is one absent from the familiar-word list.
func DaleChall(s domain.TextStats, difficultWords int) float64 {
	pdw := float64(difficultWords) / float64(s.Words) * 100
	asl := float64(s.Words) / float64(s.Sentences)
	return 0.1579*pdw + 0.0496*asl
}

// DaleChallGradeLevel maps a Dale-Chall score to a US grade range.
func DaleChallGradeLevel(score float64) string {
	switch {
	case score <= 4.9:
		return "4th grade or lower"
	case score <= 5.9:
		return "5th-6th grade"
	case score <= 6.9:
		return "7th-8th grade"
	case score <= 7.9:
		return "9th-10th grade"
	case score <= 8.9:
		return "11th-12th grade"
	case score <= 9.9:
		return "13th-15th grade (college)"
	default:
		return "16th grade or higher (graduate)"
	}
}

// ColemanLiau: 5.89*(characters/words) - 0.3*(sentences/words) - 15.8.
func ColemanLiau(s domain.TextStats) float64 {
	cpw := float64(s.Characters) / float64(s.Words)
	spw := float64(s.Sentences) / float64(s.Words)
	return 5.89*cpw - 0.3*spw - 15.8
}

// GunningFog: 0.4*((words/sentences) + 100*(complexWords/words)).
func GunningFog(s domain.TextStats) float64 {
	asl := float64(s.Words) / float64(s.Sentences)
	phw := 100 * float64(s.ComplexWords) / float64(s.Words)
	return 0.4 * (asl + phw)
}

// Spache: 0.121*(words/sentences) + 0.082*(difficultWords%) + 0.659, sharing
// the Dale-Chall familiar-word list.
func Spache(s domain.TextStats, difficultWords int) float64 {
	asl := float64(s.Words) / float64(s.Sentences)
	pdw := float64(difficultWords) / float64(s.Words) * 100
	return 0.121*asl + 0.082*pdw + 0.659
}

// AutomatedReadabilityIndex: 4.71*(characters/words) + 0.5*(words/sentences) - 21.43.
func AutomatedReadabilityIndex(s domain.TextStats) float64 {
	cpw := float64(s.Characters) / float64(s.Words)
	asl := float64(s.Words) / float64(s.Sentences)
	return 4.71*cpw + 0.5*asl - 21.43
}
