package domain

import "time"

// TextStats holds the token counts computed from cleaned article text.
type TextStats struct {
	Words            int
	Sentences        int
	Paragraphs       int
	Characters       int
	Syllables        int
	AvgWordSyllables float64
	ComplexWords     int
}

// ReadabilityScores carries every formula output for one article.
type ReadabilityScores struct {
	Flesch               float64
	FleschKincaid        float64
	Smog                 float64
	DaleChall            float64
	DaleChallGrade       string
	ColemanLiau          float64
	GunningFog           float64
	Spache               float64
	AutomatedReadability float64
}

// ReadabilityReport is the full analysis of one piece of content.
type ReadabilityReport struct {
	CleanedText string
	Stats       TextStats
	Scores      ReadabilityScores
}

// Article is a fully analyzed piece of content, keyed by URL.
// Re-analysis replaces the whole record; fields are never merged.
type Article struct {
	URL             string
	Title           string
	Origin          string // feed URL the article came from; empty for ad-hoc scans
	PublicationDate time.Time
	Host            string
	RawContent      string
	CleanedText     string
	Stats           TextStats
	Scores          ReadabilityScores
	AnalyzedAt      time.Time
}

// ExtractedContent is the strict shape returned by the extraction service.
type ExtractedContent struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// HostReadability aggregates per-hostname averages across stored articles.
type HostReadability struct {
	Host                    string
	Origin                  string
	Articles                int
	AvgWords                float64
	AvgSentences            float64
	AvgWordSyllables        float64
	AvgFlesch               float64
	AvgFleschKincaid        float64
	AvgSmog                 float64
	AvgDaleChall            float64
	AvgColemanLiau          float64
	AvgGunningFog           float64
	AvgSpache               float64
	AvgAutomatedReadability float64
}
