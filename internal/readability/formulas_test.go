package readability

import (
	"math"
	"testing"

	"NewsScanner/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 0.01
}

func TestFleschReadingEaseGolden(t *testing.T) {
	t.Parallel()

	stats := domain.TextStats{Words: 100, Sentences: 5, Syllables: 150}

	// 206.835 - 1.015*20 - 84.6*1.5 = 59.635
	got := FleschReadingEase(stats)
	if !almostEqual(got, 59.635) {
		t.Fatalf("FleschReadingEase = %v, want 59.635", got)
	}
}

func TestFleschKincaidGradeGolden(t *testing.T) {
	t.Parallel()

	stats := domain.TextStats{Words: 100, Sentences: 5, Syllables: 150}

	// 0.39*20 + 11.8*1.5 - 15.59 = 9.91
	got := FleschKincaidGrade(stats)
	if !almostEqual(got, 9.91) {
		t.Fatalf("FleschKincaidGrade = %v, want 9.91", got)
	}
}

func TestSMOGIndexGolden(t *testing.T) {
	t.Parallel()

	stats := domain.TextStats{Sentences: 30, ComplexWords: 16}

	// 3.1291 + 1.0430*sqrt(30*16/30) = 3.1291 + 1.0430*4 = 7.3011
	got := SMOGIndex(stats)
	if !almostEqual(got, 7.3011) {
		t.Fatalf("SMOGIndex = %v, want 7.3011", got)
	}
}

func TestDaleChallGolden(t *testing.T) {
	t.Parallel()

	stats := domain.TextStats{Words: 100, Sentences: 5}

	// 0.1579*10 + 0.0496*20 = 1.579 + 0.992 = 2.571
	got := DaleChall(stats, 10)
	if !almostEqual(got, 2.571) {
		t.Fatalf("DaleChall = %v, want 2.571", got)
	}
}

func TestDaleChallGradeLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  string
	}{
		{2.571, "4th grade or lower"},
		{5.5, "5th-6th grade"},
		{7.0, "9th-10th grade"},
		{12.3, "16th grade or higher (graduate)"},
	}
	for _, tc := range cases {
		if got := DaleChallGradeLevel(tc.score); got != tc.want {
			t.Fatalf("DaleChallGradeLevel(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestColemanLiauGolden(t *testing.T) {
	t.Parallel()

	stats := domain.TextStats{Words: 100, Sentences: 5, Characters: 450}

	// 5.89*4.5 - 0.3*0.05 - 15.8 = 26.505 - 0.015 - 15.8 = 10.69
	got := ColemanLiau(stats)
	if !almostEqual(got, 10.69) {
		t.Fatalf("ColemanLiau = %v, want 10.69", got)
	}
}

func TestGunningFogGolden(t *testing.T) {
	t.Parallel()

	stats := domain.TextStats{Words: 100, Sentences: 5, ComplexWords: 10}

	// 0.4*(20 + 10) = 12
	got := GunningFog(stats)
	if !almostEqual(got, 12.0) {
		t.Fatalf("GunningFog = %v, want 12.0", got)
	}
}

func TestSpacheGolden(t *testing.T) {
	t.Parallel()

	stats := domain.TextStats{Words: 100, Sentences: 5}

	// 0.121*20 + 0.082*10 + 0.659 = 2.42 + 0.82 + 0.659 = 3.899
	got := Spache(stats, 10)
	if !almostEqual(got, 3.899) {
		t.Fatalf("Spache = %v, want 3.899", got)
	}
}

func TestAutomatedReadabilityIndexGolden(t *testing.T) {
	t.Parallel()

	stats := domain.TextStats{Words: 100, Sentences: 5, Characters: 450}

	// 4.71*4.5 + 0.5*20 - 21.43 = 21.195 + 10 - 21.43 = 9.765
	got := AutomatedReadabilityIndex(stats)
	if !almostEqual(got, 9.765) {
		t.Fatalf("AutomatedReadabilityIndex = %v, want 9.765", got)
	}
}
